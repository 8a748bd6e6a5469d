package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://127.0.0.1:9222", cfg.Capture.DevtoolsURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Capture.BlobWait)
	assert.Equal(t, DefaultFilenameTemplate, cfg.Preferences.FilenameTemplate)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.False(t, cfg.Preferences.ShowAds)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	content := `
instagram:
  session_id: "file-session"
capture:
  devtools_url: "http://localhost:9333"
  blob_wait: 250ms
preferences:
  show_ads: true
  filename_template: "{Username}"
rate_limit:
  requests_per_minute: 30
`
	path := filepath.Join(t.TempDir(), "igresolve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "file-session", cfg.Instagram.SessionID)
	assert.Equal(t, "http://localhost:9333", cfg.Capture.DevtoolsURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Capture.BlobWait)
	assert.True(t, cfg.Preferences.ShowAds)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	// Untouched values keep their defaults.
	assert.Equal(t, "./downloads", cfg.Output.BaseDirectory)
}

func TestLoadFromFileMissingIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.LoadFromFile(""))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGRESOLVE_SESSION_ID", "env-session")
	t.Setenv("IGRESOLVE_DEVTOOLS_URL", "ws://127.0.0.1:9001")
	t.Setenv("IGRESOLVE_SHOW_ADS", "true")
	t.Setenv("IGRESOLVE_REQUESTS_PER_MINUTE", "15")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-session", cfg.Instagram.SessionID)
	assert.Equal(t, "ws://127.0.0.1:9001", cfg.Capture.DevtoolsURL)
	assert.True(t, cfg.Preferences.ShowAds)
	assert.Equal(t, 15, cfg.RateLimit.RequestsPerMinute)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"session-id":   "flag-session",
		"devtools-url": "http://localhost:9400",
		"output":       "/tmp/media",
		"log-level":    "debug",
	})

	assert.Equal(t, "flag-session", cfg.Instagram.SessionID)
	assert.Equal(t, "http://localhost:9400", cfg.Capture.DevtoolsURL)
	assert.Equal(t, "/tmp/media", cfg.Output.BaseDirectory)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty devtools URL", func(c *Config) { c.Capture.DevtoolsURL = "" }},
		{"zero snapshot timeout", func(c *Config) { c.Capture.SnapshotTimeout = 0 }},
		{"negative blob wait", func(c *Config) { c.Capture.BlobWait = -time.Second }},
		{"zero rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }},
		{"empty filename template", func(c *Config) { c.Preferences.FilenameTemplate = "" }},
		{"empty output directory", func(c *Config) { c.Output.BaseDirectory = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	content := `
instagram:
  session_id: "file-session"
  csrf_token: "file-csrf"
`
	path := filepath.Join(t.TempDir(), "igresolve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("IGRESOLVE_SESSION_ID", "env-session")

	cfg, err := Load(path, map[string]interface{}{"session-id": "flag-session"})
	require.NoError(t, err)

	assert.Equal(t, "flag-session", cfg.Instagram.SessionID, "flags beat environment")
	assert.Equal(t, "file-csrf", cfg.Instagram.CSRFToken, "file value survives when nothing overrides it")
}
