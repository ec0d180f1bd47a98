// internal/game/draw.go
package game

import (
	"math/rand"

	"github.com/misfortune-gg/misfortune/internal/models"
)

// drawCard picks one card uniformly at random from the catalog cards not
// yet used in the session. Returns ErrNoCardsAvailable once every card
// has been played.
func drawCard(cards []models.Card, used map[int]bool) (models.Card, error) {
	eligible := make([]models.Card, 0, len(cards)-len(used))
	for _, c := range cards {
		if !used[c.ID] {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return models.Card{}, ErrNoCardsAvailable
	}
	return eligible[rand.Intn(len(eligible))], nil
}

// drawStarters picks n distinct cards for round zero. The session has no
// ledger rows yet, so exclusion is tracked locally as we go.
func drawStarters(cards []models.Card, n int) ([]models.Card, error) {
	if len(cards) < n {
		return nil, ErrNoCardsAvailable
	}
	used := make(map[int]bool, n)
	starters := make([]models.Card, 0, n)
	for len(starters) < n {
		c, err := drawCard(cards, used)
		if err != nil {
			return nil, err
		}
		used[c.ID] = true
		starters = append(starters, c)
	}
	return starters, nil
}
