package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/hexcorridor/game/engine"
	"github.com/wricardo/hexcorridor/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager keeps the live matches, keyed by lower-cased session ID. With a
// store attached, new sessions are written through and unknown IDs are
// looked up in the store before giving up.
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	mu          sync.RWMutex
}

func NewManager() *Manager {
	return NewManagerWithPersistence(nil)
}

// NewManagerWithPersistence returns a manager backed by store. A nil store
// keeps everything in memory.
func NewManagerWithPersistence(store SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: store,
	}
}

func key(id string) string { return strings.ToLower(id) }

// Create starts a new match under the given session ID. An empty ID
// generates one.
func (m *Manager) Create(id string, config *engine.MatchConfig, opts engine.MatchOptions) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	}
	if strings.ContainsAny(id, `/\. `) {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(config, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	sess := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key(id)] = sess

	// A failed write leaves the match playable in memory.
	m.persist(sess)
	return sess, nil
}

// Get returns the session with the given ID in any letter case, loading it
// from the store when it is not in memory.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[key(id)]
	m.mu.RUnlock()
	if ok {
		return sess, nil
	}

	if m.persistence == nil || !m.persistence.Exists(id) {
		return nil, ErrSessionNotFound
	}

	loaded, err := m.persistence.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.sessions[key(id)]; ok {
		return cached, nil
	}
	m.sessions[key(id)] = loaded
	return loaded, nil
}

func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Delete drops a session from memory and from the store. It is an error
// only when neither held it.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, inMemory := m.sessions[key(id)]
	delete(m.sessions, key(id))

	stored := m.persistence != nil && m.persistence.Exists(id)
	if stored {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
	}
	if !inMemory && !stored {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory evicts a session but leaves its stored copy.
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sessionExists(id) {
		return ErrSessionNotFound
	}
	delete(m.sessions, key(id))
	return nil
}

func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[key(id)]
	if !ok {
		return ErrSessionNotFound
	}
	sess.LastAccessedAt = time.Now()
	return nil
}

// Save writes one session to the store. Without a store it does nothing.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	sess, ok := m.sessions[key(id)]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	return m.persistence.Save(sess)
}

// CleanupExpiredSessions evicts sessions idle for longer than maxAge and
// returns how many went. Stored copies stay.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for k, sess := range m.sessions {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, k)
			removed++
		}
	}
	return removed
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID draws 4 hex characters until one is free.
func (m *Manager) generateSessionID() string {
	buf := make([]byte, 2)
	for {
		rand.Read(buf)
		id := hex.EncodeToString(buf)

		m.mu.RLock()
		taken := m.sessionExists(id)
		m.mu.RUnlock()
		if !taken {
			return id
		}
	}
}

// sessionExists reports whether id is live, ignoring case. Callers hold m.mu.
func (m *Manager) sessionExists(id string) bool {
	_, ok := m.sessions[key(id)]
	return ok
}

// persist writes sess through to the store, logging instead of failing.
func (m *Manager) persist(sess *service.Session) {
	if m.persistence == nil {
		return
	}
	if err := m.persistence.Save(sess); err != nil {
		log.Printf("[SESSION] persist %s failed: %v", sess.ID, err)
	}
}

// LoadPersistedSessions pulls every stored session that is not already live
// into memory. Sessions that fail to load are logged and skipped.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		if m.sessionExists(id) {
			continue
		}
		sess, err := m.persistence.Load(id)
		if err != nil {
			log.Printf("[SESSION] skip %s: %v", id, err)
			continue
		}
		m.sessions[key(id)] = sess
		loaded++
	}

	if loaded > 0 {
		log.Printf("[SESSION] restored %d sessions from storage", loaded)
	}
	return nil
}

// SaveAllSessions writes every live session and joins the failures.
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	var errs []error
	for _, sess := range m.List() {
		if err := m.persistence.Save(sess); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", sess.ID, err))
		}
	}
	return errors.Join(errs...)
}
