package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/wricardo/hexcorridor/game/service"
)

const sessionsSchema = `CREATE TABLE IF NOT EXISTS sessions (
	id               TEXT PRIMARY KEY,
	config_name      TEXT NOT NULL,
	match_id         TEXT NOT NULL,
	seed             INTEGER NOT NULL,
	created_at       INTEGER NOT NULL,
	last_accessed_at INTEGER NOT NULL,
	data_json        BLOB NOT NULL
)`

// SQLitePersistence implements SessionPersistence on a single SQLite file.
// Each row holds the session's stored JSON plus a few indexed columns.
type SQLitePersistence struct {
	db            *sql.DB
	configManager service.ConfigManager
}

// NewSQLitePersistence opens (and creates if needed) the session database at path
func NewSQLitePersistence(path string, configManager service.ConfigManager) (*SQLitePersistence, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sessionsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	return &SQLitePersistence{
		db:            db,
		configManager: configManager,
	}, nil
}

// Close releases the underlying SQLite connection
func (sp *SQLitePersistence) Close() error {
	if sp == nil || sp.db == nil {
		return nil
	}
	return sp.db.Close()
}

// Save upserts a session row
func (sp *SQLitePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	configID, err := configIDFor(sp.configManager, session.Config.Name)
	if err != nil {
		return fmt.Errorf("failed to get config ID: %w", err)
	}

	data := snapshot(session, configID)
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	_, err = sp.db.Exec(
		`INSERT INTO sessions (id, config_name, match_id, seed, created_at, last_accessed_at, data_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			config_name = excluded.config_name,
			match_id = excluded.match_id,
			seed = excluded.seed,
			last_accessed_at = excluded.last_accessed_at,
			data_json = excluded.data_json`,
		strings.ToLower(data.ID),
		data.ConfigName,
		data.MatchID,
		data.Seed,
		data.CreatedAt.UnixMilli(),
		data.LastAccessedAt.UnixMilli(),
		payload,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}

// Load retrieves a session row and rebuilds its match
func (sp *SQLitePersistence) Load(id string) (*service.Session, error) {
	data, err := sp.LoadData(id)
	if err != nil {
		return nil, err
	}

	return restore(data, sp.configManager)
}

// LoadData decodes a stored session row without rebuilding it
func (sp *SQLitePersistence) LoadData(id string) (*PersistedSessionData, error) {
	var payload []byte
	err := sp.db.QueryRow(`SELECT data_json FROM sessions WHERE id = ?`, strings.ToLower(id)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return &data, nil
}

// Delete removes a session row
func (sp *SQLitePersistence) Delete(id string) error {
	res, err := sp.db.Exec(`DELETE FROM sessions WHERE id = ?`, strings.ToLower(id))
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all persisted session IDs, oldest first
func (sp *SQLitePersistence) ListAll() ([]string, error) {
	rows, err := sp.db.Query(`SELECT id FROM sessions ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists checks if a session row exists
func (sp *SQLitePersistence) Exists(id string) bool {
	var one int
	err := sp.db.QueryRow(`SELECT 1 FROM sessions WHERE id = ?`, strings.ToLower(id)).Scan(&one)
	return err == nil
}
