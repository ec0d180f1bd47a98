// internal/database/store.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/misfortune-gg/misfortune/internal/game"
	"github.com/misfortune-gg/misfortune/internal/models"
)

// Store is the Postgres-backed game.Store. Multi-row writes go through
// pgx.BeginTxFunc so a failed round append never leaves a half-updated
// session behind.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// LoadCatalog reads the full card table for the in-memory catalog.
func (s *Store) LoadCatalog(ctx context.Context) ([]models.Card, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, image, bad_luck_index FROM cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.Image, &c.BadLuckIndex); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (s *Store) CreateSession(ctx context.Context, sess *models.GameSession, starters []models.Round) error {
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `INSERT INTO games (id, user_id, started_at, lives, round_number)
		      VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, q, sess.ID, sess.UserID, sess.StartedAt, sess.Lives, sess.RoundNumber); err != nil {
			return err
		}
		for _, r := range starters {
			iq := `INSERT INTO rounds (game_id, round_number, card_id, won, guessed_position, played_at)
			       VALUES ($1, $2, $3, $4, $5, $6)`
			if _, err := tx.Exec(ctx, iq, r.SessionID, r.RoundNumber, r.CardID, r.Won, r.GuessedPosition, r.PlayedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

const sessionColumns = `id, user_id, started_at, ended_at, outcome, lives, round_number`

func scanSession(row pgx.Row) (*models.GameSession, error) {
	var sess models.GameSession
	var outcome *string
	err := row.Scan(&sess.ID, &sess.UserID, &sess.StartedAt, &sess.EndedAt, &outcome, &sess.Lives, &sess.RoundNumber)
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		o := models.Outcome(*outcome)
		sess.Outcome = &o
	}
	return &sess, nil
}

func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*models.GameSession, error) {
	q := `SELECT ` + sessionColumns + ` FROM games WHERE id = $1`
	sess, err := scanSession(s.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, game.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *Store) LatestActiveSession(ctx context.Context, userID uuid.UUID) (*models.GameSession, error) {
	q := `SELECT ` + sessionColumns + ` FROM games
	      WHERE user_id = $1 AND outcome IS NULL
	      ORDER BY started_at DESC
	      LIMIT 1`
	sess, err := scanSession(s.pool.QueryRow(ctx, q, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no active session for user %s: %w", userID, game.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get active session: %w", err)
	}
	return sess, nil
}

func (s *Store) ListFinishedSessions(ctx context.Context, userID uuid.UUID) ([]models.GameSession, error) {
	q := `SELECT ` + sessionColumns + ` FROM games
	      WHERE user_id = $1 AND outcome IS NOT NULL
	      ORDER BY started_at DESC`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query finished sessions: %w", err)
	}
	defer rows.Close()

	var out []models.GameSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, *sess)
	}
	return out, rows.Err()
}

func (s *Store) ListRounds(ctx context.Context, sessionID uuid.UUID) ([]models.Round, error) {
	q := `SELECT game_id, round_number, card_id, won, guessed_position, played_at
	      FROM rounds
	      WHERE game_id = $1
	      ORDER BY round_number, card_id`
	rows, err := s.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var out []models.Round
	for rows.Next() {
		var r models.Round
		if err := rows.Scan(&r.SessionID, &r.RoundNumber, &r.CardID, &r.Won, &r.GuessedPosition, &r.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UsedCardIDs(ctx context.Context, sessionID uuid.UUID) (map[int]bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT card_id FROM rounds WHERE game_id = $1`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query used cards: %w", err)
	}
	defer rows.Close()

	used := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan card id: %w", err)
		}
		used[id] = true
	}
	return used, rows.Err()
}

func (s *Store) CountResults(ctx context.Context, sessionID uuid.UUID) (won, lost int, err error) {
	q := `SELECT
	        COUNT(*) FILTER (WHERE won),
	        COUNT(*) FILTER (WHERE NOT won)
	      FROM rounds
	      WHERE game_id = $1 AND round_number > 0`
	if err := s.pool.QueryRow(ctx, q, sessionID).Scan(&won, &lost); err != nil {
		return 0, 0, fmt.Errorf("count results: %w", err)
	}
	return won, lost, nil
}

func (s *Store) RecordRound(ctx context.Context, round models.Round, sess *models.GameSession) error {
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		iq := `INSERT INTO rounds (game_id, round_number, card_id, won, guessed_position, played_at)
		       VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.Exec(ctx, iq, round.SessionID, round.RoundNumber, round.CardID, round.Won, round.GuessedPosition, round.PlayedAt); err != nil {
			return err
		}

		var outcome *string
		if sess.Outcome != nil {
			o := string(*sess.Outcome)
			outcome = &o
		}
		uq := `UPDATE games
		       SET lives = $1, round_number = $2, outcome = $3, ended_at = $4
		       WHERE id = $5`
		if _, err := tx.Exec(ctx, uq, sess.Lives, sess.RoundNumber, outcome, sess.EndedAt, sess.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("round %d for session %s: %w", round.RoundNumber, round.SessionID, game.ErrDuplicateRound)
		}
		return fmt.Errorf("record round: %w", err)
	}
	return nil
}
