// internal/store/memory_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misfortune-gg/misfortune/internal/game"
	"github.com/misfortune-gg/misfortune/internal/models"
)

func seedSession(t *testing.T, m *Memory, userID uuid.UUID) *models.GameSession {
	t.Helper()
	sess := &models.GameSession{
		ID:          uuid.New(),
		UserID:      userID,
		StartedAt:   time.Now().UTC(),
		Lives:       models.StartingLives,
		RoundNumber: 1,
	}
	starters := []models.Round{
		{SessionID: sess.ID, RoundNumber: 0, CardID: 1, Won: true},
		{SessionID: sess.ID, RoundNumber: 0, CardID: 2, Won: true},
		{SessionID: sess.ID, RoundNumber: 0, CardID: 3, Won: true},
	}
	require.NoError(t, m.CreateSession(context.Background(), sess, starters))
	return sess
}

func TestMemoryRejectsDuplicateRoundNumber(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	sess := seedSession(t, m, uuid.New())

	round := models.Round{SessionID: sess.ID, RoundNumber: 1, CardID: 4, Won: false}
	sess.Lives--
	sess.RoundNumber++
	require.NoError(t, m.RecordRound(ctx, round, sess))

	// same round number again must be refused, ledger untouched
	dup := models.Round{SessionID: sess.ID, RoundNumber: 1, CardID: 5, Won: true}
	err := m.RecordRound(ctx, dup, sess)
	assert.ErrorIs(t, err, game.ErrDuplicateRound)

	rounds, err := m.ListRounds(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, rounds, 4)
}

func TestMemoryUsedCardIDsIncludesStarters(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	sess := seedSession(t, m, uuid.New())

	used, err := m.UsedCardIDs(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, used)
}

func TestMemoryCountResultsSkipsStarters(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	sess := seedSession(t, m, uuid.New())

	sess.RoundNumber++
	require.NoError(t, m.RecordRound(ctx, models.Round{SessionID: sess.ID, RoundNumber: 1, CardID: 4, Won: true}, sess))
	sess.Lives--
	sess.RoundNumber++
	require.NoError(t, m.RecordRound(ctx, models.Round{SessionID: sess.ID, RoundNumber: 2, CardID: 5, Won: false}, sess))

	won, lost, err := m.CountResults(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
}

func TestMemoryLatestActiveSession(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	_, err := m.LatestActiveSession(ctx, userID)
	assert.ErrorIs(t, err, game.ErrNotFound)

	seedSession(t, m, userID)
	newer := seedSession(t, m, userID)

	got, err := m.LatestActiveSession(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
}
