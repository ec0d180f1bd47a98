package models

// Card is a row of static catalog reference data. BadLuckIndex is the
// hidden ordering value the player guesses against; it must never be
// serialized to a client before the round is scored.
type Card struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	BadLuckIndex float64 `json:"bad_luck_index"`
}

// PublicCard is the client-safe view of a card with the bad luck index
// withheld. Used for the candidate card of a round in progress.
type PublicCard struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Public strips the bad luck index from a card.
func (c Card) Public() PublicCard {
	return PublicCard{ID: c.ID, Name: c.Name, Image: c.Image}
}
