// internal/store/memory.go
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/misfortune-gg/misfortune/internal/game"
	"github.com/misfortune-gg/misfortune/internal/models"
)

// Memory is an in-process game.Store. It backs tests and single-node
// development runs; the Postgres store in internal/database is the
// production implementation.
type Memory struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]models.GameSession
	rounds   map[uuid.UUID][]models.Round
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[uuid.UUID]models.GameSession),
		rounds:   make(map[uuid.UUID][]models.Round),
	}
}

func (m *Memory) CreateSession(ctx context.Context, sess *models.GameSession, starters []models.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[sess.ID]; exists {
		return fmt.Errorf("session %s already exists", sess.ID)
	}
	m.sessions[sess.ID] = *sess
	m.rounds[sess.ID] = append([]models.Round(nil), starters...)
	return nil
}

func (m *Memory) GetSession(ctx context.Context, id uuid.UUID) (*models.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, game.ErrNotFound)
	}
	cp := sess
	return &cp, nil
}

func (m *Memory) LatestActiveSession(ctx context.Context, userID uuid.UUID) (*models.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.GameSession
	for id := range m.sessions {
		sess := m.sessions[id]
		if sess.UserID != userID || !sess.Active() {
			continue
		}
		if latest == nil || sess.StartedAt.After(latest.StartedAt) {
			cp := sess
			latest = &cp
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no active session for user %s: %w", userID, game.ErrNotFound)
	}
	return latest, nil
}

func (m *Memory) ListFinishedSessions(ctx context.Context, userID uuid.UUID) ([]models.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GameSession
	for id := range m.sessions {
		sess := m.sessions[id]
		if sess.UserID == userID && !sess.Active() {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

func (m *Memory) ListRounds(ctx context.Context, sessionID uuid.UUID) ([]models.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rounds := append([]models.Round(nil), m.rounds[sessionID]...)
	sort.Slice(rounds, func(i, j int) bool {
		return rounds[i].RoundNumber < rounds[j].RoundNumber
	})
	return rounds, nil
}

func (m *Memory) UsedCardIDs(ctx context.Context, sessionID uuid.UUID) (map[int]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	used := make(map[int]bool, len(m.rounds[sessionID]))
	for _, r := range m.rounds[sessionID] {
		used[r.CardID] = true
	}
	return used, nil
}

func (m *Memory) CountResults(ctx context.Context, sessionID uuid.UUID) (won, lost int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rounds[sessionID] {
		if r.Starter() {
			continue
		}
		if r.Won {
			won++
		} else {
			lost++
		}
	}
	return won, lost, nil
}

func (m *Memory) RecordRound(ctx context.Context, round models.Round, sess *models.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[round.SessionID]; !ok {
		return fmt.Errorf("session %s: %w", round.SessionID, game.ErrNotFound)
	}
	for _, r := range m.rounds[round.SessionID] {
		if r.RoundNumber == round.RoundNumber && !r.Starter() {
			return fmt.Errorf("round %d for session %s: %w", round.RoundNumber, round.SessionID, game.ErrDuplicateRound)
		}
	}
	m.rounds[round.SessionID] = append(m.rounds[round.SessionID], round)
	m.sessions[round.SessionID] = *sess
	return nil
}
