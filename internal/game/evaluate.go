// internal/game/evaluate.go
package game

import "fmt"

// GuessOutcome is the result of scoring one positional guess.
type GuessOutcome struct {
	CorrectPosition int
	Correct         bool
}

// Evaluate scores a positional guess. The correct position is the
// zero-based index the candidate's bad luck index would occupy if
// inserted into the ascending sequence of known indices; since indices
// are pairwise distinct this is simply the count of known values below
// the candidate. guessed may be nil (timeout, no position submitted),
// which always scores as incorrect. A non-nil guess outside
// [0, len(known)] is a caller error, not a wrong answer.
func Evaluate(candidate float64, known []float64, guessed *int) (GuessOutcome, error) {
	pos := 0
	for _, k := range known {
		if k == candidate {
			return GuessOutcome{}, fmt.Errorf("candidate index %v collides with a known card: %w", candidate, ErrInvalidInput)
		}
		if k < candidate {
			pos++
		}
	}

	out := GuessOutcome{CorrectPosition: pos}
	if guessed == nil {
		return out, nil
	}
	if *guessed < 0 || *guessed > len(known) {
		return GuessOutcome{}, fmt.Errorf("guessed position %d out of range [0,%d]: %w", *guessed, len(known), ErrInvalidInput)
	}
	out.Correct = *guessed == pos
	return out, nil
}
