package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igresolve/pkg/config"
)

func newTestManager(t *testing.T, cfg config.OutputConfig) *Manager {
	t.Helper()
	if cfg.BaseDirectory == "" {
		cfg.BaseDirectory = t.TempDir()
	}
	m, err := NewManager(cfg)
	require.NoError(t, err)
	return m
}

func TestSaveMediaWithUserFolders(t *testing.T) {
	m := newTestManager(t, config.OutputConfig{
		BaseDirectory:     t.TempDir(),
		CreateUserFolders: true,
	})

	path, err := m.SaveMedia(strings.NewReader("jpeg-bytes"), "jdoe", "jdoe__2024-03-05--14-07_1.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.BaseDirectory(), "jdoe", "jdoe__2024-03-05--14-07_1.jpg"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))
	assert.True(t, m.IsStored("jdoe", "jdoe__2024-03-05--14-07_1.jpg"))
	assert.Equal(t, 1, m.StoredCount())
}

func TestSaveMediaFlatLayout(t *testing.T) {
	m := newTestManager(t, config.OutputConfig{BaseDirectory: t.TempDir()})

	path, err := m.SaveMedia(strings.NewReader("x"), "jdoe", "clip_1.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.BaseDirectory(), "clip_1.mp4"), path)
}

func TestSaveMediaSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	m := newTestManager(t, config.OutputConfig{BaseDirectory: dir})

	_, err := m.SaveMedia(strings.NewReader("original"), "", "photo_1.jpg")
	require.NoError(t, err)

	path, err := m.SaveMedia(strings.NewReader("replacement"), "", "photo_1.jpg")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(content), "existing file kept when overwrite is off")
}

func TestSaveMediaOverwrites(t *testing.T) {
	dir := t.TempDir()
	m := newTestManager(t, config.OutputConfig{
		BaseDirectory:     dir,
		OverwriteExisting: true,
	})

	_, err := m.SaveMedia(strings.NewReader("original"), "", "photo_1.jpg")
	require.NoError(t, err)
	path, err := m.SaveMedia(strings.NewReader("replacement"), "", "photo_1.jpg")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "replacement", string(content))
}

func TestIndexExistingOnStartup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "jdoe"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jdoe", "old_1.jpg"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	m := newTestManager(t, config.OutputConfig{
		BaseDirectory:     dir,
		CreateUserFolders: true,
	})

	assert.True(t, m.IsStored("jdoe", "old_1.jpg"))
	assert.Equal(t, 1, m.StoredCount(), "non-media files are not indexed")
}

func TestNoPartialFileOnFailedWrite(t *testing.T) {
	m := newTestManager(t, config.OutputConfig{BaseDirectory: t.TempDir()})

	_, err := m.SaveMedia(failingReader{}, "", "broken_1.jpg")
	require.Error(t, err)
	assert.False(t, m.IsStored("", "broken_1.jpg"))

	entries, err := os.ReadDir(m.BaseDirectory())
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp file left behind")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, os.ErrClosed
}
