package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize       = 32
	keySize        = 32
	kdfIterations  = 100000
	passphraseFile = ".passphrase"
)

// FileStore keeps sessions in a single AES-GCM encrypted JSON file,
// keyed by username. The passphrase comes from IGRESOLVE_PASSPHRASE or
// a generated file next to the store.
type FileStore struct {
	path       string
	passphrase string
	mu         sync.RWMutex
}

func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	store := &FileStore{path: path}
	passphrase, err := store.resolvePassphrase()
	if err != nil {
		return nil, err
	}
	store.passphrase = passphrase
	return store, nil
}

func (f *FileStore) Save(session *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !session.Valid() {
		return ErrInvalidSession
	}

	sessions, salt, err := f.load()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if sessions == nil {
		sessions = make(map[string]Session)
	}
	sessions[session.Username] = *session
	return f.save(sessions, salt)
}

func (f *FileStore) Load(username string) (*Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if username == "" {
		return nil, ErrInvalidSession
	}
	sessions, _, err := f.load()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	session, ok := sessions[username]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (f *FileStore) Delete(username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if username == "" {
		return ErrInvalidSession
	}
	sessions, salt, err := f.load()
	if err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return err
	}
	if _, ok := sessions[username]; !ok {
		return ErrSessionNotFound
	}
	delete(sessions, username)
	if len(sessions) == 0 {
		return os.Remove(f.path)
	}
	return f.save(sessions, salt)
}

func (f *FileStore) Exists(username string) bool {
	session, err := f.Load(username)
	return err == nil && session != nil
}

type storeFile struct {
	Salt      string    `json:"salt"`
	Encrypted string    `json:"encrypted"`
	Version   int       `json:"version"`
	Modified  time.Time `json:"modified"`
}

func (f *FileStore) load() (map[string]Session, string, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return nil, "", err
	}

	var file storeFile
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, "", fmt.Errorf("failed to parse session store: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode salt: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(file.Encrypted)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode payload: %w", err)
	}

	key := pbkdf2.Key([]byte(f.passphrase), salt, kdfIterations, keySize, sha256.New)
	plaintext, err := decrypt(ciphertext, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decrypt session store: %w", err)
	}

	var sessions map[string]Session
	if err := json.Unmarshal(plaintext, &sessions); err != nil {
		return nil, "", fmt.Errorf("failed to parse sessions: %w", err)
	}
	return sessions, file.Salt, nil
}

func (f *FileStore) save(sessions map[string]Session, saltB64 string) error {
	var salt []byte
	if saltB64 == "" {
		salt = make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
		saltB64 = base64.StdEncoding.EncodeToString(salt)
	} else {
		var err error
		salt, err = base64.StdEncoding.DecodeString(saltB64)
		if err != nil {
			return fmt.Errorf("failed to decode salt: %w", err)
		}
	}

	plaintext, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	key := pbkdf2.Key([]byte(f.passphrase), salt, kdfIterations, keySize, sha256.New)
	ciphertext, err := encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt sessions: %w", err)
	}

	content, err := json.MarshalIndent(storeFile{
		Salt:      saltB64,
		Encrypted: base64.StdEncoding.EncodeToString(ciphertext),
		Version:   1,
		Modified:  time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session store: %w", err)
	}

	// Write-then-rename so a crash never leaves a half-written store.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0600); err != nil {
		return fmt.Errorf("failed to write session store: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) resolvePassphrase() (string, error) {
	if pass := os.Getenv("IGRESOLVE_PASSPHRASE"); pass != "" {
		return pass, nil
	}

	path := filepath.Join(filepath.Dir(f.path), passphraseFile)
	if content, err := os.ReadFile(path); err == nil && len(content) > 0 {
		return string(content), nil
	}

	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}
	passphrase := base64.URLEncoding.EncodeToString(b)
	if err := os.WriteFile(path, []byte(passphrase), 0600); err != nil {
		return "", fmt.Errorf("failed to save passphrase: %w", err)
	}
	return passphrase, nil
}

func encrypt(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
