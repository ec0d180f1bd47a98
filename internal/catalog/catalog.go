// internal/catalog/catalog.go
package catalog

import (
	"fmt"

	"github.com/misfortune-gg/misfortune/internal/models"
)

// Catalog is the immutable set of playable cards, loaded once at startup.
// Every engine draw and lookup goes through it; nothing mutates it after New.
type Catalog struct {
	cards []models.Card
	byID  map[int]models.Card
}

// New validates the card set and builds the lookup index. Card ids and bad
// luck indices must both be pairwise distinct: a duplicated index would make
// the correct insertion position ambiguous, so we refuse to start on it
// rather than pick a tie-break at play time.
func New(cards []models.Card) (*Catalog, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	byID := make(map[int]models.Card, len(cards))
	byIndex := make(map[float64]int, len(cards))
	for _, c := range cards {
		if prev, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %d (%q and %q)", c.ID, prev.Name, c.Name)
		}
		if otherID, dup := byIndex[c.BadLuckIndex]; dup {
			return nil, fmt.Errorf("cards %d and %d share bad luck index %v", otherID, c.ID, c.BadLuckIndex)
		}
		byID[c.ID] = c
		byIndex[c.BadLuckIndex] = c.ID
	}

	cp := make([]models.Card, len(cards))
	copy(cp, cards)
	return &Catalog{cards: cp, byID: byID}, nil
}

// Card returns the card with the given id.
func (c *Catalog) Card(id int) (models.Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Cards returns the full card set. Callers must not modify the slice.
func (c *Catalog) Cards() []models.Card {
	return c.cards
}

// Size returns the number of cards in the catalog.
func (c *Catalog) Size() int {
	return len(c.cards)
}
