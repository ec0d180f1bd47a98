// internal/game/errors.go
package game

import "errors"

// Error taxonomy for the engine. Handlers map these to HTTP statuses;
// anything not listed here is an internal failure.
var (
	// ErrInvalidInput covers malformed guesses (out-of-range position,
	// wrong card id, guessing with no candidate drawn). The session is
	// left untouched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned for unknown sessions or cards.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner is returned when a caller acts on a session that
	// belongs to a different user.
	ErrNotOwner = errors.New("session belongs to another user")

	// ErrSessionFinished is returned for play attempts on a session
	// whose outcome is already set. No round rows may follow termination.
	ErrSessionFinished = errors.New("session already finished")

	// ErrNoCardsAvailable means every catalog card has been used in the
	// session. It is fatal to the session and distinct from a game
	// outcome; the engine never converts it into a win or loss.
	ErrNoCardsAvailable = errors.New("no cards available")

	// ErrDuplicateRound signals a (session, round number) collision in
	// the ledger. Valid call sequences can never produce it; seeing it
	// means an invariant was broken and the append was rolled back.
	ErrDuplicateRound = errors.New("duplicate round number")
)
