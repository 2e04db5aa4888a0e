// Package config provides configuration management for the Hex Corridor server.
//
// The config package handles:
//   - Loading match configurations from JSON and YAML files
//   - Configuration validation through engine.ValidateMatchConfig
//   - Default configuration management
//   - Configuration discovery and listing
//   - Server settings read from the environment (ServerEnv)
//
// Configuration Format:
//
// Match configurations are stored as .json, .yaml or .yml files in the
// configs directory. Each configuration defines:
//   - Corridor length and width
//   - Fortress hit points and starting hand size
//   - Terrain and reward chances for board generation
//   - Reward respawn interval and count
//   - The card template catalog (defaults to Man, Grass and Mouse)
//
// Omitted fields take the classic values.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	matchConfig, err := manager.LoadConfig("skirmish")
//
//	// Get default configuration (classic when present)
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
package config
