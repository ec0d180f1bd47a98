// internal/game/summary.go
package game

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/misfortune-gg/misfortune/internal/models"
)

// Summary rebuilds the player's final card set from the ledger: every won
// round joined with its catalog card, ordered by round number ascending
// (starters first), each tagged with its provenance. Works for active
// sessions too, in which case Outcome is nil.
func (e *Engine) Summary(ctx context.Context, sessionID, userID uuid.UUID) (*models.GameSummary, error) {
	sess, err := e.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	rounds, err := e.store.ListRounds(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	summary := &models.GameSummary{
		SessionID: sess.ID,
		Outcome:   sess.Outcome,
		Cards:     []models.SummaryCard{},
	}
	for _, r := range rounds {
		if !r.Won {
			continue
		}
		c, ok := e.cat.Card(r.CardID)
		if !ok {
			return nil, fmt.Errorf("ledger references unknown card %d", r.CardID)
		}
		provenance := models.ProvenanceWon
		if r.Starter() {
			provenance = models.ProvenanceStarter
		}
		summary.Cards = append(summary.Cards, models.SummaryCard{
			Card:        c,
			RoundNumber: r.RoundNumber,
			Provenance:  provenance,
		})
	}
	return summary, nil
}

// CurrentGame is the resume view of a user's active session: the owned
// stack in play order (ascending bad luck index) plus the lost-round
// count the client renders as spent lives.
type CurrentGame struct {
	Session      *models.GameSession `json:"session"`
	Stack        []models.Card       `json:"stack"`
	WrongGuesses int                 `json:"wrong_guesses"`
}

// Current returns the user's latest active session, or ErrNotFound when
// every session has terminated.
func (e *Engine) Current(ctx context.Context, userID uuid.UUID) (*CurrentGame, error) {
	sess, err := e.store.LatestActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	rounds, err := e.store.ListRounds(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	var stack []models.Card
	for _, r := range rounds {
		if !r.Won {
			continue
		}
		c, ok := e.cat.Card(r.CardID)
		if !ok {
			return nil, fmt.Errorf("ledger references unknown card %d", r.CardID)
		}
		stack = append(stack, c)
	}
	sort.Slice(stack, func(i, j int) bool {
		return stack[i].BadLuckIndex < stack[j].BadLuckIndex
	})

	_, lost, err := e.store.CountResults(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	return &CurrentGame{Session: sess, Stack: stack, WrongGuesses: lost}, nil
}

// History lists the user's finished sessions, newest first.
func (e *Engine) History(ctx context.Context, userID uuid.UUID) ([]models.GameSession, error) {
	return e.store.ListFinishedSessions(ctx, userID)
}
