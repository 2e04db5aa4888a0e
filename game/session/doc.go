// Package session provides session management for Hex Corridor.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session persistence to JSON files or SQLite
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session owns one engine.GameEngine, so matches never share state.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive.
//
// Persistence:
//
// A persisted session stores its match ID, seed and action log along with a
// snapshot of the state. Loading replays the log from the seed and falls back
// to the snapshot when the replay does not reproduce it.
//
//	persistence, err := session.NewSQLitePersistence("sessions.db", configMgr)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
//	sess, err := manager.Create("", config, engine.MatchOptions{})
package session
