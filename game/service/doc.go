// Package service provides the business logic layer for Hex Corridor.
//
// The service package implements:
//   - Multi-session match management
//   - Configuration management and loading
//   - Action submission with rule rejections reported as results
//   - Automatic turn ends for players with nothing left to do
//   - Action history paging
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level match operations.
// SessionManager handles session creation, retrieval, and persistence.
// ConfigManager manages match configuration loading and validation.
// Notifier receives every committed state change, typically a WebSocket hub.
//
// Architecture:
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and the
// engine. Every call runs under one service-wide lock, so actions on a session
// are applied one at a time and each one sees the state left by the previous.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, service.WithNotifier(hub))
//
//	info, err := gameService.CreateSession(ctx, "classic", 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	card := info.GameState.Hand(engine.Player1)[0]
//	result, err := gameService.SubmitAction(ctx, info.ID, service.ActionRequest{
//		Action: engine.NewPlaceCard(engine.Player1, card.ID, hex.New(0, 1)),
//	})
//
// Automatic Turn End:
//
// After an accepted action, if the current player has no legal action the
// service schedules an END_TURN after a short delay. At most MaxAutoEndChain
// automatic turn ends happen in a row before a manual action is needed.
package service
