package auth

import (
	"os"
	"time"
)

// EnvStore reads a single session from environment variables. It never
// persists anything.
type EnvStore struct{}

func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

func (e *EnvStore) Save(*Session) error {
	return ErrStoreReadOnly
}

func (e *EnvStore) Load(username string) (*Session, error) {
	sessionID := os.Getenv("IGRESOLVE_SESSION_ID")
	csrfToken := os.Getenv("IGRESOLVE_CSRF_TOKEN")
	if sessionID == "" || csrfToken == "" {
		return nil, ErrSessionNotFound
	}
	if username == "" {
		username = "default"
	}
	return &Session{
		Username:  username,
		SessionID: sessionID,
		CSRFToken: csrfToken,
		UserAgent: os.Getenv("IGRESOLVE_USER_AGENT"),
		AddedAt:   time.Now(),
	}, nil
}

func (e *EnvStore) Delete(string) error {
	return ErrStoreReadOnly
}

func (e *EnvStore) Exists(string) bool {
	return os.Getenv("IGRESOLVE_SESSION_ID") != "" && os.Getenv("IGRESOLVE_CSRF_TOKEN") != ""
}
