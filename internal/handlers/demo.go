// internal/handlers/demo.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// DemoHandler deals an anonymous single-round demo: three sorted starter
// cards with visible indices plus one candidate with its index withheld.
// Nothing is persisted and no login is required.
func (a *API) DemoHandler(w http.ResponseWriter, r *http.Request) {
	starters, candidate, err := a.Engine.DemoDeal()
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"start_cards": starters,
		"guess_card":  candidate.Public(),
	})
}

type checkGuessRequest struct {
	CardID       int       `json:"card_id"`
	GuessIndex   *int      `json:"guess_index"`
	StartIndices []float64 `json:"start_indices"`
}

// CheckGuessHandler statelessly scores a demo guess against the
// caller-supplied starter indices.
func (a *API) CheckGuessHandler(w http.ResponseWriter, r *http.Request) {
	var req checkGuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GuessIndex == nil || req.StartIndices == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input"})
		return
	}

	outcome, actual, err := a.Engine.CheckDemoGuess(req.CardID, req.StartIndices, *req.GuessIndex)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"correct":      outcome.Correct,
		"true_index":   outcome.CorrectPosition,
		"actual_value": actual,
	})
}
