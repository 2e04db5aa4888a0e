// Package mcp provides a Model Context Protocol server for Hex Corridor.
//
// The Client is a thin proxy: every tool call becomes one or two REST calls
// against the api package, so MCP agents and HTTP clients share the same
// sessions and the same authoritative engine.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: fortresses, rendered corridor, units and hands
//   - legal_actions: all legal actions, or one card's target sets
//   - place_card, select_card, move_unit, attack_unit, attack_fortress,
//     end_turn: the match actions
//   - reset_match: fresh match in the same session
//   - action_history: the action log with paging
//   - list_configs: available corridor configurations
//   - describe_tile: details of one hex
//   - game_instructions: the rules in prose
//
// Action tools default player_id to the current player and always submit
// with auto_select, so agents never need a separate select_card call.
//
// Transport Modes:
//   - Stdio: NewClient(url) and server.ServeStdio(client.GetMCPServer())
//   - HTTP: server.NewStreamableHTTPServer(client.GetMCPServer()) mounted at /mcp
package mcp
