// Command hexcorridor starts the Hex Corridor match server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings come from the environment (and an optional .env file); flags given
// on the command line take precedence.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/hexcorridor/api"
	"github.com/wricardo/hexcorridor/game/config"
	"github.com/wricardo/hexcorridor/game/service"
	"github.com/wricardo/hexcorridor/game/session"
	"github.com/wricardo/hexcorridor/transport/mcp"
	"github.com/wricardo/hexcorridor/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Hex Corridor Server"
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port         = flag.Int("port", 8080, "HTTP server port (env PORT)")
	host         = flag.String("host", "localhost", "HTTP server host (env HOST)")
	configDir    = flag.String("config-dir", "configs", "Directory containing match configurations (env CONFIG_DIR)")
	sessionsDir  = flag.String("sessions-dir", "sessions", "Directory for file session storage (env SESSIONS_DIR)")
	sessionStore = flag.String("session-store", config.StoreFile, "Session storage: file or sqlite (env SESSION_STORE)")
	sqlitePath   = flag.String("sqlite-path", "sessions.db", "SQLite database for sqlite session storage (env SQLITE_PATH)")
	autoEndDelay = flag.Duration("auto-end-delay", service.DefaultAutoEndTurnDelay, "Delay before a stuck turn is ended automatically, negative disables (env AUTO_END_TURN_DELAY)")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel (env NGROK_ENABLED)")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (env NGROK_AUTHTOKEN)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain, optional (env NGROK_DOMAIN)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                           # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090                # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -session-store sqlite     # Keep sessions in sessions.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp                 # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		// Only log if it's not a "file not found" error
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	flag.Parse()

	// Show version if requested
	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	env, err := config.LoadServerEnv()
	if err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}
	applyServerEnv(env, explicitFlags())

	// Setup logging
	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	// Determine mode from command
	args := flag.Args()
	mode := "server" // default
	if len(args) > 0 {
		mode = args[0]
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	// Initialize services
	svc, err := initializeServices()
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Close()

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		// Run MCP stdio server with internal HTTP server
		runStdioMCPWithInternalServer(svc)

	case "server", "http":
		// Run HTTP server with API, WebSocket, and MCP endpoint
		runHTTPServer(svc)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// explicitFlags returns the names of flags given on the command line
func explicitFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// applyServerEnv copies environment settings into every flag that was not
// given explicitly.
func applyServerEnv(env config.ServerEnv, explicit map[string]bool) {
	if !explicit["port"] {
		*port = env.Port
	}
	if !explicit["host"] {
		*host = env.Host
	}
	if !explicit["config-dir"] {
		*configDir = env.ConfigDir
	}
	if !explicit["sessions-dir"] {
		*sessionsDir = env.SessionsDir
	}
	if !explicit["session-store"] {
		*sessionStore = env.SessionStore
	}
	if !explicit["sqlite-path"] {
		*sqlitePath = env.SQLitePath
	}
	if !explicit["auto-end-delay"] {
		*autoEndDelay = env.AutoEndTurnDelay
	}
	if !explicit["ngrok"] && env.NgrokEnabled {
		*ngrokEnabled = true
	}
	if !explicit["ngrok-auth"] && env.NgrokAuthToken != "" {
		*ngrokAuth = env.NgrokAuthToken
	}
	if !explicit["ngrok-domain"] && env.NgrokDomain != "" {
		*ngrokDomain = env.NgrokDomain
	}
}

// services bundles everything a server mode needs
type services struct {
	game     service.GameService
	hub      *websocket.Hub
	sessions *session.Manager
	store    session.SessionPersistence
}

// Close flushes sessions and releases the session store
func (s *services) Close() {
	if err := s.sessions.SaveAllSessions(); err != nil {
		log.Printf("Warning: Failed to save sessions: %v", err)
	}
	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Printf("Warning: Failed to close session store: %v", err)
		}
	}
}

// openSessionStore builds the persistence backend selected by -session-store
func openSessionStore(kind string, configManager service.ConfigManager) (session.SessionPersistence, error) {
	switch kind {
	case config.StoreFile:
		return session.NewFilePersistence(*sessionsDir, configManager)
	case config.StoreSQLite:
		return session.NewSQLitePersistence(*sqlitePath, configManager)
	default:
		return nil, fmt.Errorf("unknown session store %q (use %q or %q)", kind, config.StoreFile, config.StoreSQLite)
	}
}

// initializeServices wires config, session storage, the game service and the
// WebSocket hub. The hub is the service's notifier and routes client actions
// back into the service.
func initializeServices() (*services, error) {
	// Create config manager first (needed for persistence)
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := openSessionStore(*sessionStore, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	// Create session manager with persistence
	sessionManager := session.NewManagerWithPersistence(persistence)

	// Load persisted sessions on startup
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	hub := websocket.NewHub()
	gameService := service.NewGameService(sessionManager, configManager,
		service.WithNotifier(hub),
		service.WithAutoEndTurnDelay(*autoEndDelay),
	)
	hub.SetActionHandler(gameService)
	go hub.Run()

	// Start session cleanup routine
	go sessionCleanupRoutine(sessionManager)

	// Start storage sync routine
	go storageSyncRoutine(sessionManager, persistence)

	log.Printf("Sessions stored in %s backend (%d loaded)", *sessionStore, sessionManager.Count())

	return &services{
		game:     gameService,
		hub:      hub,
		sessions: sessionManager,
		store:    persistence,
	}, nil
}

// newRouter combines the REST API, WebSocket and the /mcp endpoint
func newRouter(svc *services, mcpClient *mcp.Client) http.Handler {
	apiServer := api.NewServer(svc.game, svc.hub)

	mainRouter := http.NewServeMux()

	// Mount API server at root
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(svc *services) {
	addr := fmt.Sprintf("%s:%d", *host, *port)

	// The MCP endpoint proxies to this same server
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mainRouter := newRouter(svc, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	// Start regular HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>&player=<player1|player2>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Start ngrok tunnel if enabled
	if *ngrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()

			authToken := *ngrokAuth
			if authToken == "" {
				authToken = os.Getenv("NGROK_AUTH_TOKEN") // Also support underscore version
			}

			if authToken == "" {
				log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
				return
			}

			log.Println("Starting ngrok tunnel...")

			// Configure ngrok endpoint
			var tunnel ngrokConfig.Tunnel
			if *ngrokDomain != "" {
				tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(*ngrokDomain))
				log.Printf("Using custom ngrok domain: %s", *ngrokDomain)
			} else {
				tunnel = ngrokConfig.HTTPEndpoint()
			}

			tun, err := ngrok.Listen(ctx,
				tunnel,
				ngrok.WithAuthtoken(authToken),
			)
			if err != nil {
				log.Printf("Failed to start ngrok tunnel: %v", err)
				return
			}
			defer func() {
				if err := tun.Close(); err != nil {
					log.Printf("Failed to close ngrok tunnel: %v", err)
				}
			}()

			ngrokURL := tun.URL()
			log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
			log.Printf("  REST API (ngrok): %s/api", ngrokURL)
			log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
			log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

			// Serve HTTP through ngrok tunnel
			if err := http.Serve(tun, mainRouter); err != nil && err != http.ErrServerClosed {
				log.Printf("Ngrok server error: %v", err)
			}
			log.Println("Ngrok tunnel closed")
		}()
	}

	// Wait for shutdown signal
	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Wait for all goroutines to finish
	wg.Wait()
	log.Println("Server stopped")
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredSessions(24 * time.Hour)
		if removed > 0 {
			log.Printf("Cleaned up %d expired sessions", removed)
		}
	}
}

// storageSyncRoutine periodically drops in-memory sessions whose stored
// record was deleted out from under the server.
func storageSyncRoutine(manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if pruned := pruneOrphanedSessions(manager, persistence); pruned > 0 {
			log.Printf("Storage sync: pruned %d orphaned sessions from memory", pruned)
		}
	}
}

// pruneOrphanedSessions removes sessions from memory that are gone from storage
func pruneOrphanedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	if persistence == nil {
		return 0
	}

	pruned := 0
	for _, sess := range manager.List() {
		if !persistence.Exists(sess.ID) {
			if err := manager.DeleteFromMemory(sess.ID); err == nil {
				pruned++
				log.Printf("Pruned session %s from memory (record deleted)", sess.ID)
			}
		}
	}
	return pruned
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an API already running on the configured port; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(svc *services) {
	var baseURL string

	externalURL := fmt.Sprintf("http://%s:%d", *host, *port)
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode == http.StatusOK {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		// Start internal HTTP server on a random available port
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}

		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		httpServer := &http.Server{
			Handler: api.NewServer(svc.game, svc.hub),
		}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
