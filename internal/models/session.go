package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the terminal result of a game session.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// Session state thresholds. A session starts with StartingLives and three
// starter cards; it ends in a win after WinThreshold correct guesses or a
// loss after LossThreshold wrong ones. Losing a life per wrong guess makes
// the lives-exhausted and lost-round-count conditions coincide.
const (
	StartingLives int = 3
	StarterCards  int = 3
	WinThreshold  int = 6
	LossThreshold int = 3
)

// GameSession is one playthrough: created at start, frozen once Outcome is
// set. Lives and RoundNumber are stored redundantly with the ledger and
// updated in the same transaction as each round insert.
type GameSession struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	Outcome     *Outcome   `json:"outcome,omitempty"`
	Lives       int        `json:"lives"`
	RoundNumber int        `json:"round_number"`
}

// Active reports whether the session may still accept rounds.
func (s *GameSession) Active() bool {
	return s.Outcome == nil
}

// Round is one append-only ledger row. RoundNumber 0 marks a starter card
// granted at session creation (always won, no guess); numbers >= 1 are
// played rounds. GuessedPosition is nil when the round timed out with no
// guess submitted.
type Round struct {
	SessionID       uuid.UUID `json:"session_id"`
	RoundNumber     int       `json:"round_number"`
	CardID          int       `json:"card_id"`
	Won             bool      `json:"won"`
	GuessedPosition *int      `json:"guessed_position,omitempty"`
	PlayedAt        time.Time `json:"played_at"`
}

// Starter reports whether this row is a round-zero starter grant.
func (r *Round) Starter() bool {
	return r.RoundNumber == 0
}

// Provenance values for summary cards.
const (
	ProvenanceStarter = "starter"
	ProvenanceWon     = "wonInRound"
)

// SummaryCard pairs a won card with the round it was obtained in.
type SummaryCard struct {
	Card        Card   `json:"card"`
	RoundNumber int    `json:"round_number"`
	Provenance  string `json:"provenance"`
}

// GameSummary is the post-hoc view of a session: its outcome (nil while
// still active) and every card won, ordered by round number ascending.
type GameSummary struct {
	SessionID uuid.UUID     `json:"session_id"`
	Outcome   *Outcome      `json:"outcome"`
	Cards     []SummaryCard `json:"cards"`
}
