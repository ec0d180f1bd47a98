// internal/handlers/user.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/misfortune-gg/misfortune/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler checks credentials and issues the auth cookie. The token
// subject is the user's stable id; everything downstream keys on it.
func (a *API) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	user, err := a.Users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		a.Log.WithField("username", req.Username).Info("failed login attempt")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	token, err := auth.CreateToken(user.ID.String())
	if err != nil {
		a.Log.WithError(err).Error("failed to sign auth token")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TokenTTLSeconds(),
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// LogoutHandler clears the auth cookie.
func (a *API) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// SessionHandler returns the authenticated user, or 401.
func (a *API) SessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}
	user, err := a.Users.GetUserByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}
	user.Password = ""
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
