// Package api provides HTTP REST API handlers for Hex Corridor.
//
// The api package implements:
//   - Session management endpoints
//   - Action submission and legal target queries
//   - Paginated action history
//   - Configuration listing, lookup and creation
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({config_id, seed}, both optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Compact summaries (?sessionIds=a,b or ?configName=classic)
//   - GET /api/sessions/{id} - Get a session with its state and summary
//   - DELETE /api/sessions/{id} - Delete a session
//
// Match Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/actions - Submit one action (?auto_select=true)
//   - GET /api/sessions/{id}/legal - Legal actions (?card_id=X for one card's target sets)
//   - POST /api/sessions/{id}/reset - Start a fresh match in the same session
//   - GET /api/sessions/{id}/history - Action log (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Validate and save a configuration
//
// Other:
//   - GET /ws?session={id}&player={player1|player2} - WebSocket stream of state
//     updates; the player binds the connection to a seat, omit it to spectate
//   - GET /health - Liveness check
//
// Actions:
//
// Actions are posted as JSON in the engine's action shape:
//
//	{"type": "PLACE_CARD", "player_id": "player1", "card_id": "<card uuid>", "position": {"q": 0, "r": 2}}
//	{"type": "MOVE_UNIT", "player_id": "player1", "card_id": "<card uuid>", "target_position": {"q": 1, "r": 2}}
//	{"type": "ATTACK_FORTRESS", "player_id": "player1", "attacker_id": "<card uuid>", "target_fortress": "player2"}
//	{"type": "END_TURN", "player_id": "player1"}
//
// A rule rejection is answered with 200 and {"accepted": false, "reason": "..."};
// the state is unchanged. Malformed actions get 400 and unknown sessions 404.
//
// Errors are returned as JSON:
//
//	{"error": "error message"}
package api
