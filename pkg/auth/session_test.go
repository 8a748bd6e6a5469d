package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(username string) *Session {
	return &Session{
		Username:  username,
		SessionID: "1234567890%3Aabcdefghij%3A28",
		CSRFToken: "csrf-token-value",
		UserAgent: "Mozilla/5.0",
	}
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	t.Setenv("IGRESOLVE_PASSPHRASE", "test-passphrase")
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions.enc"))
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestFileStore(t)

	require.NoError(t, store.Save(testSession("jdoe")))
	require.NoError(t, store.Save(testSession("other")))

	loaded, err := store.Load("jdoe")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", loaded.Username)
	assert.Equal(t, "1234567890%3Aabcdefghij%3A28", loaded.SessionID)
	assert.True(t, store.Exists("other"))

	_, err = store.Load("nobody")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFileStoreContentIsEncrypted(t *testing.T) {
	t.Setenv("IGRESOLVE_PASSPHRASE", "test-passphrase")
	path := filepath.Join(t.TempDir(), "sessions.enc")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(testSession("jdoe")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "abcdefghij", "session id must not appear in plaintext")
	assert.NotContains(t, string(content), "csrf-token-value")
}

func TestFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.enc")

	t.Setenv("IGRESOLVE_PASSPHRASE", "first")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(testSession("jdoe")))

	t.Setenv("IGRESOLVE_PASSPHRASE", "second")
	store, err = NewFileStore(path)
	require.NoError(t, err)
	_, err = store.Load("jdoe")
	assert.Error(t, err)
}

func TestFileStoreDelete(t *testing.T) {
	store := newTestFileStore(t)
	require.NoError(t, store.Save(testSession("jdoe")))

	require.NoError(t, store.Delete("jdoe"))
	assert.False(t, store.Exists("jdoe"))
	assert.ErrorIs(t, store.Delete("jdoe"), ErrSessionNotFound)
}

func TestEnvStore(t *testing.T) {
	t.Setenv("IGRESOLVE_SESSION_ID", "env-session")
	t.Setenv("IGRESOLVE_CSRF_TOKEN", "env-csrf")

	store := NewEnvStore()
	session, err := store.Load("")
	require.NoError(t, err)
	assert.Equal(t, "default", session.Username)
	assert.Equal(t, "env-session", session.SessionID)

	assert.ErrorIs(t, store.Save(testSession("jdoe")), ErrStoreReadOnly)
	assert.ErrorIs(t, store.Delete("jdoe"), ErrStoreReadOnly)
}

func TestEnvStoreMissingCredentials(t *testing.T) {
	t.Setenv("IGRESOLVE_SESSION_ID", "")
	t.Setenv("IGRESOLVE_CSRF_TOKEN", "")

	_, err := NewEnvStore().Load("jdoe")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// memStore is an in-memory Store for manager tests.
type memStore struct {
	sessions map[string]*Session
	saveErr  error
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*Session)}
}

func (m *memStore) Save(s *Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[s.Username] = s
	return nil
}

func (m *memStore) Load(username string) (*Session, error) {
	s, ok := m.sessions[username]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *memStore) Delete(username string) error {
	if _, ok := m.sessions[username]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, username)
	return nil
}

func (m *memStore) Exists(username string) bool {
	_, ok := m.sessions[username]
	return ok
}

func TestManagerFallsBackOnSaveFailure(t *testing.T) {
	broken := newMemStore()
	broken.saveErr = errors.New("backend down")
	working := newMemStore()
	m := &Manager{stores: []Store{broken, working}}

	require.NoError(t, m.Save(testSession("jdoe")))
	assert.True(t, working.Exists("jdoe"))

	loaded, err := m.Load("jdoe")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", loaded.Username)
}

func TestManagerRejectsIncompleteSession(t *testing.T) {
	m := &Manager{stores: []Store{newMemStore()}}
	err := m.Save(&Session{Username: "jdoe"})
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManagerDefaultPrefersEnvironment(t *testing.T) {
	t.Setenv("IGRESOLVE_SESSION_ID", "env-session")
	t.Setenv("IGRESOLVE_CSRF_TOKEN", "env-csrf")

	m := &Manager{stores: []Store{newMemStore(), NewEnvStore()}}
	session, err := m.Default()
	require.NoError(t, err)
	assert.Equal(t, "env-session", session.SessionID)
}

func TestRedacted(t *testing.T) {
	s := testSession("jdoe")
	r := s.Redacted()
	assert.Equal(t, "jdoe", r.Username)
	assert.NotEqual(t, s.SessionID, r.SessionID)
	assert.Contains(t, r.SessionID, "...")
	assert.Equal(t, "********", (&Session{CSRFToken: "short"}).Redacted().CSRFToken)
}
