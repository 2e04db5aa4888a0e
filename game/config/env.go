package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerEnv is the server configuration read from the environment. Command
// line flags take precedence over these values.
type ServerEnv struct {
	Port             int           `env:"PORT"                envDefault:"8080"`
	Host             string        `env:"HOST"                envDefault:"localhost"`
	ConfigDir        string        `env:"CONFIG_DIR"          envDefault:"configs"`
	SessionsDir      string        `env:"SESSIONS_DIR"        envDefault:"sessions"`
	SessionStore     string        `env:"SESSION_STORE"       envDefault:"file"`
	SQLitePath       string        `env:"SQLITE_PATH"         envDefault:"sessions.db"`
	NgrokEnabled     bool          `env:"NGROK_ENABLED"`
	NgrokAuthToken   string        `env:"NGROK_AUTHTOKEN"`
	NgrokDomain      string        `env:"NGROK_DOMAIN"`
	AutoEndTurnDelay time.Duration `env:"AUTO_END_TURN_DELAY" envDefault:"100ms"`
}

// Session store kinds accepted in SESSION_STORE.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// LoadServerEnv parses ServerEnv from the environment.
func LoadServerEnv() (ServerEnv, error) {
	var cfg ServerEnv
	if err := env.Parse(&cfg); err != nil {
		return ServerEnv{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.SessionStore {
	case StoreFile, StoreSQLite:
	default:
		return ServerEnv{}, fmt.Errorf("parse env: SESSION_STORE must be %q or %q, got %q", StoreFile, StoreSQLite, cfg.SessionStore)
	}
	if cfg.AutoEndTurnDelay < 0 {
		return ServerEnv{}, fmt.Errorf("parse env: AUTO_END_TURN_DELAY must not be negative")
	}
	return cfg, nil
}
