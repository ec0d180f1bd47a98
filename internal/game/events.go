// internal/game/events.go
package game

import "github.com/google/uuid"

// EventType labels the session events pushed to spectators.
type EventType string

const (
	EventCardDrawn   EventType = "card_drawn"   // a candidate was drawn (index withheld)
	EventRoundResult EventType = "round_result" // a round was scored
	EventSessionEnd  EventType = "session_end"  // outcome decided
)

// Event is broadcast to everyone watching a session. Payloads only carry
// information a spectator may see: a drawn card's index is never included
// before its round is scored.
type Event struct {
	Type      EventType              `json:"type"`
	SessionID uuid.UUID              `json:"session_id"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}
