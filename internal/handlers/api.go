// internal/handlers/api.go
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/misfortune-gg/misfortune/internal/game"
	"github.com/misfortune-gg/misfortune/internal/models"
)

// UserStore is the slice of the identity layer the API needs: checking
// credentials at login and resolving the token subject back to a user.
type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// API wires the engine and identity store into HTTP handlers.
type API struct {
	Engine *game.Engine
	Users  UserStore
	Log    *logrus.Logger
}

func NewAPI(engine *game.Engine, users UserStore, log *logrus.Logger) *API {
	if log == nil {
		log = logrus.New()
	}
	return &API{Engine: engine, Users: users, Log: log}
}

// Routes registers every endpoint on the mux.
func (a *API) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", a.LoginHandler)
	mux.HandleFunc("GET /api/logout", a.LogoutHandler)
	mux.HandleFunc("GET /api/session", a.SessionHandler)

	mux.HandleFunc("GET /api/cards/demo", a.DemoHandler)
	mux.HandleFunc("POST /api/cards/check-guess", a.CheckGuessHandler)

	mux.HandleFunc("POST /api/games", a.StartGameHandler)
	mux.HandleFunc("GET /api/games/current", a.CurrentGameHandler)
	mux.HandleFunc("GET /api/games/history", a.HistoryHandler)
	mux.HandleFunc("POST /api/games/{id}/next", a.NextCardHandler)
	mux.HandleFunc("POST /api/games/{id}/rounds", a.SubmitRoundHandler)
	mux.HandleFunc("GET /api/games/{id}/summary", a.SummaryHandler)

	mux.HandleFunc("GET /sessions/ws/{id}", a.WatchSessionHandler)
}
