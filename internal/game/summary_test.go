// internal/game/summary_test.go
package game_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misfortune-gg/misfortune/internal/game"
	"github.com/misfortune-gg/misfortune/internal/models"
)

// playRound draws and submits one round, returning whether it was won.
func playRound(t *testing.T, e *game.Engine, sessID, userID uuid.UUID, stack *[]float64, win bool) *game.GuessResult {
	t.Helper()
	ctx := context.Background()

	card, err := e.NextCard(ctx, sessID, userID)
	require.NoError(t, err)

	pos := correctPos(*stack, card.BadLuckIndex)
	if !win {
		pos = (pos + 1) % (len(*stack) + 1)
	}
	res, err := e.SubmitGuess(ctx, sessID, userID, card.ID, &pos)
	require.NoError(t, err)
	require.Equal(t, win, res.Correct)

	if win {
		*stack = append(*stack, card.BadLuckIndex)
	}
	return res
}

func TestSummaryProvenanceAndOrdering(t *testing.T) {
	e, _ := newTestEngine(t, 30)
	ctx := context.Background()
	userID := uuid.New()

	sess, starters, err := e.StartSession(ctx, userID)
	require.NoError(t, err)

	stack := make([]float64, 0, 8)
	for _, c := range starters {
		stack = append(stack, c.BadLuckIndex)
	}

	playRound(t, e, sess.ID, userID, &stack, true)  // round 1 won
	playRound(t, e, sess.ID, userID, &stack, false) // round 2 lost
	playRound(t, e, sess.ID, userID, &stack, true)  // round 3 won

	summary, err := e.Summary(ctx, sess.ID, userID)
	require.NoError(t, err)
	assert.Nil(t, summary.Outcome)

	// 3 starters + 2 won rounds; lost round excluded
	require.Len(t, summary.Cards, 5)
	for _, sc := range summary.Cards[:3] {
		assert.Equal(t, 0, sc.RoundNumber)
		assert.Equal(t, models.ProvenanceStarter, sc.Provenance)
	}
	assert.Equal(t, 1, summary.Cards[3].RoundNumber)
	assert.Equal(t, models.ProvenanceWon, summary.Cards[3].Provenance)
	assert.Equal(t, 3, summary.Cards[4].RoundNumber)
	assert.Equal(t, models.ProvenanceWon, summary.Cards[4].Provenance)
}

func TestSummaryIdempotentAfterTermination(t *testing.T) {
	e, _ := newTestEngine(t, 30)
	ctx := context.Background()
	userID := uuid.New()

	sess, starters, err := e.StartSession(ctx, userID)
	require.NoError(t, err)

	stack := make([]float64, 0, 3)
	for _, c := range starters {
		stack = append(stack, c.BadLuckIndex)
	}
	for i := 0; i < 3; i++ {
		playRound(t, e, sess.ID, userID, &stack, false)
	}

	first, err := e.Summary(ctx, sess.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, first.Outcome)
	assert.Equal(t, models.OutcomeLoss, *first.Outcome)

	second, err := e.Summary(ctx, sess.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCurrentReturnsActiveSessionState(t *testing.T) {
	e, _ := newTestEngine(t, 30)
	ctx := context.Background()
	userID := uuid.New()

	_, err := e.Current(ctx, userID)
	assert.ErrorIs(t, err, game.ErrNotFound)

	sess, starters, err := e.StartSession(ctx, userID)
	require.NoError(t, err)

	stack := make([]float64, 0, 4)
	for _, c := range starters {
		stack = append(stack, c.BadLuckIndex)
	}
	playRound(t, e, sess.ID, userID, &stack, true)
	playRound(t, e, sess.ID, userID, &stack, false)

	current, err := e.Current(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, current.Session.ID)
	assert.Equal(t, 1, current.WrongGuesses)
	require.Len(t, current.Stack, 4)
	for i := 1; i < len(current.Stack); i++ {
		assert.Less(t, current.Stack[i-1].BadLuckIndex, current.Stack[i].BadLuckIndex)
	}
}

func TestHistoryListsOnlyFinishedSessions(t *testing.T) {
	e, _ := newTestEngine(t, 60)
	ctx := context.Background()
	userID := uuid.New()

	// one finished session
	sess, starters, err := e.StartSession(ctx, userID)
	require.NoError(t, err)
	stack := make([]float64, 0, 3)
	for _, c := range starters {
		stack = append(stack, c.BadLuckIndex)
	}
	for i := 0; i < 3; i++ {
		playRound(t, e, sess.ID, userID, &stack, false)
	}

	// one still active
	_, _, err = e.StartSession(ctx, userID)
	require.NoError(t, err)

	history, err := e.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, sess.ID, history[0].ID)
}

func TestDemoDeal(t *testing.T) {
	e, _ := newTestEngine(t, 10)

	starters, candidate, err := e.DemoDeal()
	require.NoError(t, err)
	require.Len(t, starters, 3)
	for i := 1; i < len(starters); i++ {
		assert.Less(t, starters[i-1].BadLuckIndex, starters[i].BadLuckIndex)
	}
	for _, s := range starters {
		assert.NotEqual(t, s.ID, candidate.ID)
	}

	known := []float64{starters[0].BadLuckIndex, starters[1].BadLuckIndex, starters[2].BadLuckIndex}
	pos := correctPos(known, candidate.BadLuckIndex)
	out, actual, err := e.CheckDemoGuess(candidate.ID, known, pos)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, candidate.BadLuckIndex, actual)

	_, _, err = e.CheckDemoGuess(9999, known, 0)
	assert.ErrorIs(t, err, game.ErrNotFound)
}
