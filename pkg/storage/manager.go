// Package storage writes resolved media to disk with duplicate
// detection, so repeated scans of the same post don't re-download.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"igresolve/pkg/config"
)

// mediaExtensions are filename extensions counted as stored media.
var mediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".mp4":  true,
	".webm": true,
}

// Manager handles media file storage and duplicate detection. Files
// land under the base directory, optionally in one folder per owner.
type Manager struct {
	cfg    config.OutputConfig
	stored map[string]bool
	mu     sync.RWMutex
}

// NewManager creates the base directory and indexes what is already
// there.
func NewManager(cfg config.OutputConfig) (*Manager, error) {
	if err := os.MkdirAll(cfg.BaseDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := &Manager{
		cfg:    cfg,
		stored: make(map[string]bool),
	}
	if err := m.indexExisting(); err != nil {
		return nil, fmt.Errorf("failed to index existing files: %w", err)
	}
	return m, nil
}

// indexExisting walks the base directory and records media files by
// their path relative to it.
func (m *Manager) indexExisting() error {
	return filepath.WalkDir(m.cfg.BaseDirectory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !mediaExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		rel, err := filepath.Rel(m.cfg.BaseDirectory, path)
		if err != nil {
			return err
		}
		m.stored[rel] = true
		return nil
	})
}

// pathFor returns the relative and absolute paths for a media file.
func (m *Manager) pathFor(username, filename string) (string, string) {
	rel := filename
	if m.cfg.CreateUserFolders && username != "" {
		rel = filepath.Join(username, filename)
	}
	return rel, filepath.Join(m.cfg.BaseDirectory, rel)
}

// IsStored reports whether the media file already exists on disk.
func (m *Manager) IsStored(username, filename string) bool {
	rel, abs := m.pathFor(username, filename)

	m.mu.RLock()
	known := m.stored[rel]
	m.mu.RUnlock()
	if known {
		return true
	}

	if _, err := os.Stat(abs); err == nil {
		m.mu.Lock()
		m.stored[rel] = true
		m.mu.Unlock()
		return true
	}
	return false
}

// SaveMedia streams media to disk and returns the absolute path. When
// overwriting is disabled and the file exists, the existing path is
// returned with no write.
func (m *Manager) SaveMedia(r io.Reader, username, filename string) (string, error) {
	rel, abs := m.pathFor(username, filename)

	if !m.cfg.OverwriteExisting && m.IsStored(username, filename) {
		return abs, nil
	}

	if dir := filepath.Dir(abs); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create media directory: %w", err)
		}
	}

	// Write to a temp file and rename, so partial downloads never
	// appear as stored media.
	tmp := abs + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write media data: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close media file: %w", closeErr)
	}
	if err := os.Rename(tmp, abs); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize media file: %w", err)
	}

	m.mu.Lock()
	m.stored[rel] = true
	m.mu.Unlock()
	return abs, nil
}

// BaseDirectory returns the configured output root.
func (m *Manager) BaseDirectory() string {
	return m.cfg.BaseDirectory
}

// StoredCount returns how many media files the manager knows about.
func (m *Manager) StoredCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stored)
}
