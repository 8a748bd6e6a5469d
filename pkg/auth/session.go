// Package auth stores Instagram web sessions. The private API rejects
// anonymous callers for most endpoints, so scans that need remote media
// info carry a sessionid and csrftoken pair obtained from a logged-in
// browser.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Session is one stored Instagram web session.
type Session struct {
	Username  string    `json:"username"`
	SessionID string    `json:"session_id"`
	CSRFToken string    `json:"csrf_token"`
	UserAgent string    `json:"user_agent,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// Valid reports whether the session carries the fields the API client
// needs.
func (s *Session) Valid() bool {
	return s != nil && s.Username != "" && s.SessionID != "" && s.CSRFToken != ""
}

// Store persists sessions in one backend.
type Store interface {
	Save(session *Session) error
	Load(username string) (*Session, error)
	Delete(username string) error
	Exists(username string) bool
}

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session")
	ErrStoreReadOnly   = errors.New("store is read-only")
)

// Manager tries stores in order: system keychain, then an encrypted
// file, then environment variables. Saves land in the first writable
// backend, loads in the first backend that has the session.
type Manager struct {
	stores []Store
}

// NewManager builds the default store chain. The keychain is skipped
// silently when the platform has none.
func NewManager() (*Manager, error) {
	var stores []Store

	if ks, err := NewKeyringStore(); err == nil {
		stores = append(stores, ks)
	}

	dir, err := configDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	fs, err := NewFileStore(filepath.Join(dir, "sessions.enc"))
	if err != nil {
		return nil, err
	}
	stores = append(stores, fs, NewEnvStore())

	return &Manager{stores: stores}, nil
}

func (m *Manager) Save(session *Session) error {
	if !session.Valid() {
		return ErrInvalidSession
	}
	session.AddedAt = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Save(session); err == nil {
			return nil
		} else if !errors.Is(err, ErrStoreReadOnly) {
			lastErr = err
		}
	}
	if lastErr != nil {
		return fmt.Errorf("failed to save session: %w", lastErr)
	}
	return errors.New("no writable session store")
}

func (m *Manager) Load(username string) (*Session, error) {
	for _, store := range m.stores {
		if session, err := store.Load(username); err == nil && session != nil {
			return session, nil
		}
	}
	return nil, ErrSessionNotFound
}

// Default returns the environment session when one is configured,
// which lets CI and one-off runs skip the keychain entirely.
func (m *Manager) Default() (*Session, error) {
	for i := len(m.stores) - 1; i >= 0; i-- {
		if env, ok := m.stores[i].(*EnvStore); ok {
			if session, err := env.Load(""); err == nil {
				return session, nil
			}
		}
	}
	return nil, ErrSessionNotFound
}

func (m *Manager) Delete(username string) error {
	deleted := false
	for _, store := range m.stores {
		if err := store.Delete(username); err == nil {
			deleted = true
		}
	}
	if !deleted {
		return ErrSessionNotFound
	}
	return nil
}

// Redacted returns a copy safe for logs.
func (s *Session) Redacted() *Session {
	if s == nil {
		return nil
	}
	return &Session{
		Username:  s.Username,
		SessionID: mask(s.SessionID),
		CSRFToken: mask(s.CSRFToken),
		UserAgent: s.UserAgent,
		AddedAt:   s.AddedAt,
	}
}

func mask(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// configDir returns the per-user directory for session storage,
// creating it when missing.
func configDir() (string, error) {
	var dir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, "Library", "Application Support", "igresolve")
	case "windows":
		dir = filepath.Join(os.Getenv("APPDATA"), "igresolve")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			dir = filepath.Join(xdg, "igresolve")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dir = filepath.Join(home, ".config", "igresolve")
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}
