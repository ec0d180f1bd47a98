// internal/game/demo.go
package game

import (
	"fmt"
	"sort"

	"github.com/misfortune-gg/misfortune/internal/models"
)

// DemoDeal draws a throwaway anonymous round: three starter cards
// (returned sorted ascending, indices visible) and one candidate whose
// index the caller must withhold. Nothing is persisted.
func (e *Engine) DemoDeal() ([]models.Card, models.Card, error) {
	drawn, err := drawStarters(e.cat.Cards(), models.StarterCards+1)
	if err != nil {
		return nil, models.Card{}, fmt.Errorf("draw demo cards: %w", err)
	}
	candidate := drawn[models.StarterCards]
	starters := drawn[:models.StarterCards]
	sort.Slice(starters, func(i, j int) bool {
		return starters[i].BadLuckIndex < starters[j].BadLuckIndex
	})
	return starters, candidate, nil
}

// CheckDemoGuess scores a stateless demo guess against caller-supplied
// known indices. Returns the outcome and the card's revealed index.
func (e *Engine) CheckDemoGuess(cardID int, known []float64, guessed int) (GuessOutcome, float64, error) {
	card, ok := e.cat.Card(cardID)
	if !ok {
		return GuessOutcome{}, 0, fmt.Errorf("card %d: %w", cardID, ErrNotFound)
	}
	out, err := Evaluate(card.BadLuckIndex, known, &guessed)
	if err != nil {
		return GuessOutcome{}, 0, err
	}
	return out, card.BadLuckIndex, nil
}
