package config

import (
	"testing"
	"time"
)

func TestLoadServerEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadServerEnv()
		if err != nil {
			t.Fatalf("Failed to load env: %v", err)
		}
		if cfg.Port != 8080 {
			t.Errorf("Expected port 8080, got %d", cfg.Port)
		}
		if cfg.SessionStore != StoreFile {
			t.Errorf("Expected file store, got %s", cfg.SessionStore)
		}
		if cfg.AutoEndTurnDelay != 100*time.Millisecond {
			t.Errorf("Expected 100ms auto end turn delay, got %v", cfg.AutoEndTurnDelay)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9191")
		t.Setenv("SESSION_STORE", "sqlite")
		t.Setenv("SQLITE_PATH", "/tmp/corridor.db")
		t.Setenv("NGROK_ENABLED", "true")
		t.Setenv("AUTO_END_TURN_DELAY", "250ms")

		cfg, err := LoadServerEnv()
		if err != nil {
			t.Fatalf("Failed to load env: %v", err)
		}
		if cfg.Port != 9191 {
			t.Errorf("Expected port 9191, got %d", cfg.Port)
		}
		if cfg.SessionStore != StoreSQLite || cfg.SQLitePath != "/tmp/corridor.db" {
			t.Errorf("Unexpected store settings: %s %s", cfg.SessionStore, cfg.SQLitePath)
		}
		if !cfg.NgrokEnabled {
			t.Error("Expected ngrok to be enabled")
		}
		if cfg.AutoEndTurnDelay != 250*time.Millisecond {
			t.Errorf("Expected 250ms, got %v", cfg.AutoEndTurnDelay)
		}
	})

	t.Run("unknown store", func(t *testing.T) {
		t.Setenv("SESSION_STORE", "redis")
		if _, err := LoadServerEnv(); err == nil {
			t.Error("Expected error for unknown session store")
		}
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("PORT", "eighty")
		if _, err := LoadServerEnv(); err == nil {
			t.Error("Expected error for non-numeric port")
		}
	})
}
