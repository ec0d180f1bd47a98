// internal/handlers/session_ws.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
)

// WatchSessionHandler upgrades to WebSocket and streams a session's
// events (candidate drawn, round scored, outcome decided) to a
// spectator. The stream is one-way and carries nothing a spectator may
// not see; gameplay itself stays on the request/response endpoints.
func (a *API) WatchSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // tighten for production
	})
	if err != nil {
		a.Log.WithError(err).Warnf("websocket accept failed for session %s", sessionID)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler exit")

	a.Log.WithField("session", sessionID).Infof("spectator connected from %s", r.RemoteAddr)

	events, cancel := a.Engine.Subscribe(sessionID)
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "client gone")
			return
		case ev, ok := <-events:
			if !ok {
				// session terminated
				c.Close(websocket.StatusNormalClosure, "session ended")
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				a.Log.WithError(err).Error("failed to marshal session event")
				continue
			}
			if err := c.Write(ctx, websocket.MessageText, data); err != nil {
				a.Log.WithField("session", sessionID).Infof("spectator write failed: %v", err)
				return
			}
		}
	}
}
