// internal/database/user.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/misfortune-gg/misfortune/internal/auth"
	"github.com/misfortune-gg/misfortune/internal/game"
	"github.com/misfortune-gg/misfortune/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash

	q := `INSERT INTO users (id, username, email, name, password)
	      VALUES ($1, $2, $3, $4, $5)`
	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, user.ID, user.Username, user.Email, user.Name, user.Password)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	q := `SELECT id, username, email, name, password FROM users WHERE username = $1`
	err := s.pool.QueryRow(ctx, q, username).Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, game.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	q := `SELECT id, username, email, name, password FROM users WHERE id = $1`
	err := s.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, game.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Authenticate checks a username/password pair and returns the user with
// the password hash cleared. Wrong username and wrong password are
// indistinguishable to the caller.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	match, err := auth.VerifyPassword(password, user.Password)
	if err != nil || !match {
		return nil, fmt.Errorf("invalid credentials")
	}
	user.Password = ""
	return user, nil
}
