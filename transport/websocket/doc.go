// Package websocket provides WebSocket transport for Hex Corridor.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasting after every committed action
//   - Action intake from connected clients
//   - Connection lifecycle management
//
// Architecture:
//
// A central Hub owns every connection. Its Run goroutine is the only code
// that touches the client map; broadcasts and per-client replies reach it
// through channels. Each client has a read pump and a write pump.
//
// Message Protocol:
//
// Outgoing messages are {session_id, event, game_state?, events?, data?}
// where event is one of:
//   - state_update: the match changed (or the client just connected)
//   - action_rejected: the client's action broke a rule; data.reason explains
//   - error: the client's message could not be processed
//
// Incoming messages:
//   - {"type": "action", "action": {"type": "END_TURN"}}
//   - {"type": "state"}
//
// A connection opened with a player is bound to that seat: its actions are
// stamped with the player, and naming the other player is an error. A
// connection without a player is a spectator and cannot act.
//
// Accepted actions are not answered directly; every client of the session,
// the sender included, receives the resulting state_update.
//
// Usage:
//
//	hub := websocket.NewHub()
//	gameService := service.NewGameService(sessions, configs, service.WithNotifier(hub))
//	hub.SetActionHandler(gameService)
//	go hub.Run()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		q := r.URL.Query()
//		hub.ServeWS(w, r, q.Get("session"), engine.Player(q.Get("player")))
//	})
package websocket
