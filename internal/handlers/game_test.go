// internal/handlers/game_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/misfortune-gg/misfortune/internal/auth"
	"github.com/misfortune-gg/misfortune/internal/catalog"
	"github.com/misfortune-gg/misfortune/internal/game"
	"github.com/misfortune-gg/misfortune/internal/models"
	"github.com/misfortune-gg/misfortune/internal/store"
)

// fakeUsers satisfies UserStore with a single known account.
type fakeUsers struct {
	user models.User
}

func (f *fakeUsers) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == f.user.Username && password == "secret" {
		u := f.user
		return &u, nil
	}
	return nil, fmt.Errorf("invalid credentials")
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == f.user.ID {
		u := f.user
		return &u, nil
	}
	return nil, fmt.Errorf("user not found: %w", game.ErrNotFound)
}

func newTestMux(t *testing.T) (*http.ServeMux, *fakeUsers) {
	t.Helper()
	if err := auth.Init(); err != nil {
		t.Fatalf("auth init: %v", err)
	}

	cards := make([]models.Card, 20)
	for i := range cards {
		cards[i] = models.Card{
			ID:           i + 1,
			Name:         fmt.Sprintf("card %d", i+1),
			Image:        fmt.Sprintf("card_%d.jpg", i+1),
			BadLuckIndex: float64(i+1) * 10,
		}
	}
	cat, err := catalog.New(cards)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	engine := game.NewEngine(store.NewMemory(), cat, logger)
	users := &fakeUsers{user: models.User{ID: uuid.New(), Username: "player1", Email: "p1@example.com"}}

	api := NewAPI(engine, users, logger)
	mux := http.NewServeMux()
	api.Routes(mux)
	return mux, users
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, cookie string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if cookie != "" {
		req.Header.Set("Cookie", auth.CookieName+"="+cookie)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestGameRoutesRequireAuth(t *testing.T) {
	mux, _ := newTestMux(t)

	w := doJSON(t, mux, "POST", "/api/games", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFullGameFlowOverHTTP(t *testing.T) {
	mux, users := newTestMux(t)
	token, err := auth.CreateToken(users.user.ID.String())
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	// start a game
	w := doJSON(t, mux, "POST", "/api/games", token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("start game: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var started struct {
		GameID       uuid.UUID     `json:"game_id"`
		Lives        int           `json:"lives"`
		StarterCards []models.Card `json:"starter_cards"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	if started.Lives != models.StartingLives || len(started.StarterCards) != 3 {
		t.Fatalf("unexpected start state: %+v", started)
	}

	// draw the candidate; its bad luck index must be withheld
	w = doJSON(t, mux, "POST", "/api/games/"+started.GameID.String()+"/next", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("next card: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("bad_luck_index")) {
		t.Fatalf("next card response leaked the bad luck index: %s", w.Body.String())
	}
	var next struct {
		GuessCard models.PublicCard `json:"guess_card"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &next); err != nil {
		t.Fatalf("decode next response: %v", err)
	}

	// submit a timeout (no guessed position)
	w = doJSON(t, mux, "POST", "/api/games/"+started.GameID.String()+"/rounds", token,
		map[string]interface{}{"card_id": next.GuessCard.ID, "guessed_position": nil})
	if w.Code != http.StatusOK {
		t.Fatalf("submit round: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result game.GuessResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode round result: %v", err)
	}
	if result.Correct || result.Lives != models.StartingLives-1 {
		t.Fatalf("timeout should cost a life: %+v", result)
	}

	// resume view reflects the lost round
	w = doJSON(t, mux, "GET", "/api/games/current", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("current game: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var current game.CurrentGame
	if err := json.Unmarshal(w.Body.Bytes(), &current); err != nil {
		t.Fatalf("decode current game: %v", err)
	}
	if current.WrongGuesses != 1 || len(current.Stack) != 3 {
		t.Fatalf("unexpected current game: %+v", current)
	}

	// summary lists the three starters
	w = doJSON(t, mux, "GET", "/api/games/"+started.GameID.String()+"/summary", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var summary models.GameSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summary.Cards) != 3 || summary.Outcome != nil {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSubmitRoundRejectsBadPosition(t *testing.T) {
	mux, users := newTestMux(t)
	token, _ := auth.CreateToken(users.user.ID.String())

	w := doJSON(t, mux, "POST", "/api/games", token, nil)
	var started struct {
		GameID uuid.UUID `json:"game_id"`
	}
	json.Unmarshal(w.Body.Bytes(), &started)

	w = doJSON(t, mux, "POST", "/api/games/"+started.GameID.String()+"/next", token, nil)
	var next struct {
		GuessCard models.PublicCard `json:"guess_card"`
	}
	json.Unmarshal(w.Body.Bytes(), &next)

	// 3 starters allow positions [0,3]; 7 is out of range
	w = doJSON(t, mux, "POST", "/api/games/"+started.GameID.String()+"/rounds", token,
		map[string]interface{}{"card_id": next.GuessCard.ID, "guessed_position": 7})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnotherUsersSessionIsForbidden(t *testing.T) {
	mux, users := newTestMux(t)
	token, _ := auth.CreateToken(users.user.ID.String())

	w := doJSON(t, mux, "POST", "/api/games", token, nil)
	var started struct {
		GameID uuid.UUID `json:"game_id"`
	}
	json.Unmarshal(w.Body.Bytes(), &started)

	otherToken, _ := auth.CreateToken(uuid.NewString())
	w = doJSON(t, mux, "POST", "/api/games/"+started.GameID.String()+"/next", otherToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDemoEndpoints(t *testing.T) {
	mux, _ := newTestMux(t)

	w := doJSON(t, mux, "GET", "/api/cards/demo", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("demo: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var demo struct {
		StartCards []models.Card     `json:"start_cards"`
		GuessCard  models.PublicCard `json:"guess_card"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &demo); err != nil {
		t.Fatalf("decode demo: %v", err)
	}
	if len(demo.StartCards) != 3 {
		t.Fatalf("expected 3 start cards, got %d", len(demo.StartCards))
	}

	known := []float64{demo.StartCards[0].BadLuckIndex, demo.StartCards[1].BadLuckIndex, demo.StartCards[2].BadLuckIndex}
	w = doJSON(t, mux, "POST", "/api/cards/check-guess", "",
		map[string]interface{}{"card_id": demo.GuessCard.ID, "guess_index": 0, "start_indices": known})
	if w.Code != http.StatusOK {
		t.Fatalf("check-guess: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var checked struct {
		Correct     bool    `json:"correct"`
		TrueIndex   int     `json:"true_index"`
		ActualValue float64 `json:"actual_value"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &checked); err != nil {
		t.Fatalf("decode check-guess: %v", err)
	}
	if checked.TrueIndex < 0 || checked.TrueIndex > 3 {
		t.Fatalf("true index out of range: %+v", checked)
	}
}

func TestLoginIssuesCookie(t *testing.T) {
	mux, _ := newTestMux(t)

	w := doJSON(t, mux, "POST", "/api/login", "", map[string]string{"username": "player1", "password": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("login did not set the auth cookie")
	}

	w = doJSON(t, mux, "POST", "/api/login", "", map[string]string{"username": "player1", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", w.Code)
	}
}
