// internal/game/engine.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/misfortune-gg/misfortune/internal/catalog"
	"github.com/misfortune-gg/misfortune/internal/models"
)

// Engine is the authoritative session state machine. All round logic
// lives here; clients only display what the engine returns. Every call
// takes explicit session and user ids; the engine holds no notion of a
// current user.
//
// Per-session calls are serialized through an in-memory runtime so that
// a double-submitted guess or a retried draw can never produce two
// in-flight rounds for the same session.
type Engine struct {
	store Store
	cat   *catalog.Catalog
	log   *logrus.Logger

	// Audit, when set, receives a copy of every recorded round.
	Audit RoundAuditor

	mu       sync.Mutex
	runtimes map[uuid.UUID]*sessionRuntime
}

// sessionRuntime carries the transient, non-persisted side of an active
// session: the candidate card awaiting a guess and the spectator feed.
type sessionRuntime struct {
	mu      sync.Mutex
	pending *models.Card

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

func NewEngine(store Store, cat *catalog.Catalog, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		store:    store,
		cat:      cat,
		log:      log,
		runtimes: make(map[uuid.UUID]*sessionRuntime),
	}
}

func (e *Engine) runtime(sessionID uuid.UUID) *sessionRuntime {
	e.mu.Lock()
	defer e.mu.Unlock()
	rt, ok := e.runtimes[sessionID]
	if !ok {
		rt = &sessionRuntime{subs: make(map[chan Event]struct{})}
		e.runtimes[sessionID] = rt
	}
	return rt
}

func (e *Engine) dropRuntime(sessionID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.runtimes, sessionID)
}

// StartSession creates a session for the user with full lives, grants
// three distinct starter cards as round-zero ledger rows, and returns the
// starters ordered ascending by bad luck index (the initial owned stack).
func (e *Engine) StartSession(ctx context.Context, userID uuid.UUID) (*models.GameSession, []models.Card, error) {
	starters, err := drawStarters(e.cat.Cards(), models.StarterCards)
	if err != nil {
		return nil, nil, fmt.Errorf("draw starter cards: %w", err)
	}

	now := time.Now().UTC()
	sess := &models.GameSession{
		ID:          uuid.New(),
		UserID:      userID,
		StartedAt:   now,
		Lives:       models.StartingLives,
		RoundNumber: 1,
	}

	rounds := make([]models.Round, 0, len(starters))
	for _, c := range starters {
		rounds = append(rounds, models.Round{
			SessionID:   sess.ID,
			RoundNumber: 0,
			CardID:      c.ID,
			Won:         true,
			PlayedAt:    now,
		})
	}

	if err := e.store.CreateSession(ctx, sess, rounds); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	sort.Slice(starters, func(i, j int) bool {
		return starters[i].BadLuckIndex < starters[j].BadLuckIndex
	})

	e.log.WithFields(logrus.Fields{
		"session": sess.ID,
		"user":    userID,
	}).Info("session started")

	return sess, starters, nil
}

// NextCard draws the candidate for the session's next round. While a
// candidate is already awaiting a guess the same card is returned again,
// so client retries are harmless. The card's bad luck index must be
// withheld from the response; callers serialize it via Card.Public.
func (e *Engine) NextCard(ctx context.Context, sessionID, userID uuid.UUID) (models.Card, error) {
	rt := e.runtime(sessionID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sess, err := e.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return models.Card{}, err
	}
	if !sess.Active() {
		return models.Card{}, ErrSessionFinished
	}

	if rt.pending != nil {
		return *rt.pending, nil
	}

	used, err := e.store.UsedCardIDs(ctx, sessionID)
	if err != nil {
		return models.Card{}, fmt.Errorf("load used cards: %w", err)
	}
	card, err := drawCard(e.cat.Cards(), used)
	if err != nil {
		if errors.Is(err, ErrNoCardsAvailable) {
			e.log.WithField("session", sessionID).Error("catalog exhausted mid-session")
		}
		return models.Card{}, err
	}
	rt.pending = &card

	e.emit(rt, Event{
		Type:      EventCardDrawn,
		SessionID: sessionID,
		Payload: map[string]interface{}{
			"card": card.Public(),
			"round": sess.RoundNumber,
		},
	})
	return card, nil
}

// GuessResult is what a scored round reveals to the player: correctness,
// the true insertion position, the candidate's now-public bad luck index,
// and the session counters after the round.
type GuessResult struct {
	Correct         bool            `json:"correct"`
	CorrectPosition int             `json:"correct_position"`
	BadLuckIndex    float64         `json:"bad_luck_index"`
	Lives           int             `json:"lives"`
	RoundNumber     int             `json:"round_number"`
	GameOver        bool            `json:"game_over"`
	Outcome         *models.Outcome `json:"outcome,omitempty"`
}

// SubmitGuess scores exactly one round. guessed == nil means the caller's
// timing policy expired with no selection; that scores as an incorrect
// round with no recorded position. On success the round row, the session
// counters, and any terminal outcome are committed atomically; on any
// error the session is untouched and the pending candidate remains.
func (e *Engine) SubmitGuess(ctx context.Context, sessionID, userID uuid.UUID, cardID int, guessed *int) (*GuessResult, error) {
	rt := e.runtime(sessionID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sess, err := e.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !sess.Active() {
		return nil, ErrSessionFinished
	}
	if rt.pending == nil {
		return nil, fmt.Errorf("no candidate card awaiting a guess: %w", ErrInvalidInput)
	}
	if rt.pending.ID != cardID {
		return nil, fmt.Errorf("card %d is not the drawn candidate: %w", cardID, ErrInvalidInput)
	}
	candidate := *rt.pending

	known, err := e.ownedIndices(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := Evaluate(candidate.BadLuckIndex, known, guessed)
	if err != nil {
		return nil, err
	}

	prevWon, prevLost, err := e.store.CountResults(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	now := time.Now().UTC()
	round := models.Round{
		SessionID:       sessionID,
		RoundNumber:     sess.RoundNumber,
		CardID:          candidate.ID,
		Won:             outcome.Correct,
		GuessedPosition: guessed,
		PlayedAt:        now,
	}

	won, lost := prevWon, prevLost
	if outcome.Correct {
		won++
	} else {
		lost++
		sess.Lives--
	}
	sess.RoundNumber++

	// Lives hitting zero and the lost-round count hitting the threshold
	// are the same condition as long as every lost round costs exactly
	// one life; both are checked so a future accounting change cannot
	// silently strand a dead session.
	var final *models.Outcome
	switch {
	case sess.Lives <= 0:
		final = outcomePtr(models.OutcomeLoss)
	case won >= models.WinThreshold:
		final = outcomePtr(models.OutcomeWin)
	case lost >= models.LossThreshold:
		final = outcomePtr(models.OutcomeLoss)
	}
	if final != nil {
		sess.Outcome = final
		sess.EndedAt = &now
	}

	if err := e.store.RecordRound(ctx, round, sess); err != nil {
		if errors.Is(err, ErrDuplicateRound) {
			e.log.WithFields(logrus.Fields{
				"session": sessionID,
				"round":   round.RoundNumber,
			}).Error("duplicate round append blocked")
		}
		return nil, fmt.Errorf("record round: %w", err)
	}
	rt.pending = nil

	e.auditRound(ctx, round)

	res := &GuessResult{
		Correct:         outcome.Correct,
		CorrectPosition: outcome.CorrectPosition,
		BadLuckIndex:    candidate.BadLuckIndex,
		Lives:           sess.Lives,
		RoundNumber:     round.RoundNumber,
		GameOver:        final != nil,
		Outcome:         final,
	}

	e.emit(rt, Event{
		Type:      EventRoundResult,
		SessionID: sessionID,
		Payload: map[string]interface{}{
			"round":            round.RoundNumber,
			"card":             candidate,
			"correct":          outcome.Correct,
			"correct_position": outcome.CorrectPosition,
			"lives":            sess.Lives,
		},
	})
	if final != nil {
		e.emit(rt, Event{
			Type:      EventSessionEnd,
			SessionID: sessionID,
			Payload:   map[string]interface{}{"outcome": *final},
		})
		e.closeSubscribers(rt)
		e.dropRuntime(sessionID)
		e.log.WithFields(logrus.Fields{
			"session": sessionID,
			"outcome": *final,
			"rounds":  round.RoundNumber,
		}).Info("session terminated")
	}

	return res, nil
}

// ownedSession loads a session and verifies the caller owns it.
func (e *Engine) ownedSession(ctx context.Context, sessionID, userID uuid.UUID) (*models.GameSession, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrNotOwner
	}
	return sess, nil
}

// ownedIndices returns the bad luck indices of the session's owned stack,
// ascending. This is the known set each guess is evaluated against.
func (e *Engine) ownedIndices(ctx context.Context, sessionID uuid.UUID) ([]float64, error) {
	rounds, err := e.store.ListRounds(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	var known []float64
	for _, r := range rounds {
		if !r.Won {
			continue
		}
		c, ok := e.cat.Card(r.CardID)
		if !ok {
			return nil, fmt.Errorf("ledger references unknown card %d", r.CardID)
		}
		known = append(known, c.BadLuckIndex)
	}
	sort.Float64s(known)
	return known, nil
}

func (e *Engine) auditRound(ctx context.Context, round models.Round) {
	if e.Audit == nil {
		return
	}
	rec := AuditRecord{
		SessionID:       round.SessionID,
		RoundNumber:     round.RoundNumber,
		CardID:          round.CardID,
		Won:             round.Won,
		GuessedPosition: round.GuessedPosition,
		Timestamp:       round.PlayedAt.UnixMilli(),
	}
	if err := e.Audit.PublishRound(ctx, rec); err != nil {
		e.log.WithError(err).Warn("failed to publish round to audit queue")
	}
}

func outcomePtr(o models.Outcome) *models.Outcome {
	return &o
}
