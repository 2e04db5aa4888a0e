package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/hexcorridor/game/config"
	"github.com/wricardo/hexcorridor/transport/mcp"
)

// useTestStorage points every storage flag at a temp dir and restores them
// afterwards.
func useTestStorage(t *testing.T, store string) {
	t.Helper()
	origConfig, origSessions, origStore, origSQLite := *configDir, *sessionsDir, *sessionStore, *sqlitePath
	t.Cleanup(func() {
		*configDir, *sessionsDir, *sessionStore, *sqlitePath = origConfig, origSessions, origStore, origSQLite
	})

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	dir := t.TempDir()
	*configDir = "configs"
	*sessionsDir = filepath.Join(dir, "sessions")
	*sqlitePath = filepath.Join(dir, "sessions.db")
	*sessionStore = store
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Hex Corridor Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}

	if *sessionStore != config.StoreFile {
		t.Errorf("Expected file session store by default, got %s", *sessionStore)
	}
}

func TestApplyServerEnv(t *testing.T) {
	origPort, origHost, origStore, origDelay, origNgrok := *port, *host, *sessionStore, *autoEndDelay, *ngrokEnabled
	defer func() {
		*port, *host, *sessionStore, *autoEndDelay, *ngrokEnabled = origPort, origHost, origStore, origDelay, origNgrok
	}()

	*port = 7000
	env := config.ServerEnv{
		Port:             9090,
		Host:             "0.0.0.0",
		ConfigDir:        *configDir,
		SessionsDir:      *sessionsDir,
		SessionStore:     config.StoreSQLite,
		SQLitePath:       *sqlitePath,
		NgrokEnabled:     true,
		AutoEndTurnDelay: 250 * time.Millisecond,
	}

	applyServerEnv(env, map[string]bool{"port": true})

	if *port != 7000 {
		t.Errorf("Explicit -port should win, got %d", *port)
	}
	if *host != "0.0.0.0" {
		t.Errorf("Expected host from env, got %s", *host)
	}
	if *sessionStore != config.StoreSQLite {
		t.Errorf("Expected sqlite store from env, got %s", *sessionStore)
	}
	if *autoEndDelay != 250*time.Millisecond {
		t.Errorf("Expected auto end delay from env, got %v", *autoEndDelay)
	}
	if !*ngrokEnabled {
		t.Error("Expected ngrok enabled from env")
	}
}

func TestInitializeServices(t *testing.T) {
	for _, store := range []string{config.StoreFile, config.StoreSQLite} {
		t.Run(store, func(t *testing.T) {
			useTestStorage(t, store)

			svc, err := initializeServices()
			if err != nil {
				t.Fatalf("Failed to initialize services: %v", err)
			}
			defer svc.Close()

			if svc.game == nil || svc.hub == nil || svc.sessions == nil || svc.store == nil {
				t.Fatal("Expected every service to be initialized")
			}

			info, err := svc.game.CreateSession(context.Background(), "", 42)
			if err != nil {
				t.Fatalf("Failed to create session: %v", err)
			}
			if !svc.store.Exists(info.ID) {
				t.Errorf("Session %s should be persisted in the %s store", info.ID, store)
			}
		})
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	useTestStorage(t, config.StoreFile)
	*configDir = "/non/existent/path"

	if _, err := initializeServices(); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestInitializeServices_UnknownStore(t *testing.T) {
	useTestStorage(t, "redis")

	_, err := initializeServices()
	if err == nil || !strings.Contains(err.Error(), "unknown session store") {
		t.Errorf("Expected unknown store error, got %v", err)
	}
}

func TestPruneOrphanedSessions(t *testing.T) {
	useTestStorage(t, config.StoreFile)

	svc, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Close()

	ctx := context.Background()
	kept, _ := svc.game.CreateSession(ctx, "", 1)
	gone, _ := svc.game.CreateSession(ctx, "", 2)

	if err := svc.store.Delete(gone.ID); err != nil {
		t.Fatalf("Failed to delete stored session: %v", err)
	}

	if pruned := pruneOrphanedSessions(svc.sessions, svc.store); pruned != 1 {
		t.Errorf("Expected 1 pruned session, got %d", pruned)
	}
	if _, err := svc.game.GetSession(ctx, kept.ID); err != nil {
		t.Errorf("Kept session should still exist: %v", err)
	}
	if pruneOrphanedSessions(svc.sessions, nil) != 0 {
		t.Error("Nothing is pruned without persistence")
	}
}

func TestRouter(t *testing.T) {
	useTestStorage(t, config.StoreFile)

	svc, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Close()

	router := newRouter(svc, mcp.NewClient("http://127.0.0.1:0"))

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("mcp ping", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
		router.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"result"`) {
			t.Errorf("Expected JSON-RPC result, got %s", w.Body.String())
		}
	})

	t.Run("mcp requires POST", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", w.Code)
		}
	})
}
