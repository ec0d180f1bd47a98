// internal/database/migrate.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied idempotently at startup. The partial unique index on
// rounds enforces the one-row-per-played-round invariant while still
// allowing the three starter rows that all carry round_number 0.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cards (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		image TEXT NOT NULL,
		bad_luck_index DOUBLE PRECISION NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		started_at TIMESTAMPTZ NOT NULL,
		ended_at TIMESTAMPTZ,
		outcome TEXT CHECK (outcome IN ('win', 'loss')),
		lives INTEGER NOT NULL,
		round_number INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rounds (
		game_id UUID NOT NULL REFERENCES games(id),
		round_number INTEGER NOT NULL,
		card_id INTEGER NOT NULL REFERENCES cards(id),
		won BOOLEAN NOT NULL,
		guessed_position INTEGER,
		played_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (game_id, round_number, card_id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS rounds_game_round_uniq
		ON rounds (game_id, round_number) WHERE round_number > 0`,
	`CREATE INDEX IF NOT EXISTS games_user_started_idx
		ON games (user_id, started_at DESC)`,
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
