// internal/game/store.go
package game

import (
	"context"

	"github.com/google/uuid"
	"github.com/misfortune-gg/misfortune/internal/models"
)

// Store is the persistence boundary for sessions and the round ledger.
// Implementations must treat CreateSession and RecordRound as atomic:
// either every row lands or none do. RecordRound must fail with
// ErrDuplicateRound (wrapped is fine) when the played round number
// already exists for the session.
type Store interface {
	// CreateSession persists a new session together with its starter
	// rounds (round number 0) in one transaction.
	CreateSession(ctx context.Context, sess *models.GameSession, starters []models.Round) error

	GetSession(ctx context.Context, id uuid.UUID) (*models.GameSession, error)

	// LatestActiveSession returns the user's most recently started
	// session without an outcome, or ErrNotFound.
	LatestActiveSession(ctx context.Context, userID uuid.UUID) (*models.GameSession, error)

	// ListFinishedSessions returns the user's terminated sessions,
	// newest first.
	ListFinishedSessions(ctx context.Context, userID uuid.UUID) ([]models.GameSession, error)

	// ListRounds returns every ledger row for the session ordered by
	// round number ascending.
	ListRounds(ctx context.Context, sessionID uuid.UUID) ([]models.Round, error)

	// UsedCardIDs returns the ids of all cards that appear in the
	// session's ledger, starters included.
	UsedCardIDs(ctx context.Context, sessionID uuid.UUID) (map[int]bool, error)

	// CountResults tallies won and lost rounds among non-starter rows.
	CountResults(ctx context.Context, sessionID uuid.UUID) (won, lost int, err error)

	// RecordRound appends one round and updates the session's lives,
	// round counter, and (if set) outcome in the same transaction.
	RecordRound(ctx context.Context, round models.Round, sess *models.GameSession) error
}

// RoundAuditor receives a copy of every recorded round for the external
// audit/history trail. Publishing is best effort; the engine logs and
// continues when it fails.
type RoundAuditor interface {
	PublishRound(ctx context.Context, rec AuditRecord) error
}

// AuditRecord is the wire form of a round pushed to the audit queue.
type AuditRecord struct {
	SessionID       uuid.UUID `json:"session_id"`
	RoundNumber     int       `json:"round_number"`
	CardID          int       `json:"card_id"`
	Won             bool      `json:"won"`
	GuessedPosition *int      `json:"guessed_position,omitempty"`
	Timestamp       int64     `json:"timestamp"`
}
