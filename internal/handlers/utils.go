// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/misfortune-gg/misfortune/internal/auth"
	"github.com/misfortune-gg/misfortune/internal/game"
)

// extractCookieToken pulls a named cookie value out of the Cookie header,
// or returns empty if not present.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// requireUser resolves the authenticated user id from the auth cookie.
func requireUser(r *http.Request) (uuid.UUID, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), auth.CookieName)
	if token == "" {
		return uuid.Nil, fmt.Errorf("missing auth token")
	}
	sub, err := auth.VerifyToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id in token: %w", err)
	}
	return userID, nil
}

// sessionIDFromPath parses the {id} path segment.
func sessionIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session id: %w", err)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
// Internal failures are reported generically; the detail stays in the log.
func (a *API) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input"})
	case errors.Is(err, game.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, game.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, game.ErrSessionFinished):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "session already finished"})
	case errors.Is(err, game.ErrNoCardsAvailable):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "no more cards available"})
	default:
		a.Log.WithError(err).WithField("path", r.URL.Path).Error("engine error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
