// internal/game/subscribe.go
package game

import "github.com/google/uuid"

const subscriberBuffer = 16

// Subscribe registers a spectator feed for a session. The returned cancel
// func must be called when the watcher goes away. The channel is closed
// when the session terminates. Slow subscribers have events dropped
// rather than stalling gameplay.
func (e *Engine) Subscribe(sessionID uuid.UUID) (<-chan Event, func()) {
	rt := e.runtime(sessionID)
	ch := make(chan Event, subscriberBuffer)

	rt.subMu.Lock()
	rt.subs[ch] = struct{}{}
	rt.subMu.Unlock()

	cancel := func() {
		rt.subMu.Lock()
		if _, ok := rt.subs[ch]; ok {
			delete(rt.subs, ch)
			close(ch)
		}
		rt.subMu.Unlock()
	}
	return ch, cancel
}

func (e *Engine) emit(rt *sessionRuntime, ev Event) {
	rt.subMu.Lock()
	defer rt.subMu.Unlock()
	for ch := range rt.subs {
		select {
		case ch <- ev:
		default:
			// subscriber is not keeping up; drop
		}
	}
}

func (e *Engine) closeSubscribers(rt *sessionRuntime) {
	rt.subMu.Lock()
	defer rt.subMu.Unlock()
	for ch := range rt.subs {
		delete(rt.subs, ch)
		close(ch)
	}
}
