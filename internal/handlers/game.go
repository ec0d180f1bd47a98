// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// StartGameHandler creates a session for the authenticated user and
// returns its id plus the starter stack (indices visible, ascending).
func (a *API) StartGameHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}

	sess, starters, err := a.Engine.StartSession(r.Context(), userID)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"game_id":       sess.ID,
		"lives":         sess.Lives,
		"round_number":  sess.RoundNumber,
		"starter_cards": starters,
	})
}

// CurrentGameHandler resumes the user's latest active session.
func (a *API) CurrentGameHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}

	current, err := a.Engine.Current(r.Context(), userID)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

// HistoryHandler lists the user's finished sessions.
func (a *API) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}

	sessions, err := a.Engine.History(r.Context(), userID)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": sessions})
}

// NextCardHandler draws the candidate for the next round. The bad luck
// index is withheld: only the public card view is serialized.
func (a *API) NextCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}
	sessionID, err := sessionIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return
	}

	card, err := a.Engine.NextCard(r.Context(), sessionID, userID)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"guess_card": card.Public()})
}

type submitRoundRequest struct {
	CardID int `json:"card_id"`

	// GuessedPosition is nil when the client's timer expired with no
	// selection; that scores the round as lost.
	GuessedPosition *int `json:"guessed_position"`
}

// SubmitRoundHandler scores exactly one round: the guess (or its
// absence) is evaluated, the ledger row committed, and the revealed
// index plus updated counters returned.
func (a *API) SubmitRoundHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}
	sessionID, err := sessionIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return
	}

	var req submitRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	result, err := a.Engine.SubmitGuess(r.Context(), sessionID, userID, req.CardID, req.GuessedPosition)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SummaryHandler returns the session's won cards with provenance.
func (a *API) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}
	sessionID, err := sessionIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return
	}

	summary, err := a.Engine.Summary(r.Context(), sessionID, userID)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
