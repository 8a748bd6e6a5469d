package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the media resolver
type Config struct {
	// Instagram session and header shaping
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Browser attachment and snapshot capture
	Capture CaptureConfig `yaml:"capture" json:"capture"`

	// User preferences consumed by the resolution engine
	Preferences Preferences `yaml:"preferences" json:"preferences"`

	// Rate limiting for the private API endpoints
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings for --download
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	SessionID string `yaml:"session_id" json:"session_id"`
	CSRFToken string `yaml:"csrf_token" json:"csrf_token"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	// AppID overrides the page-discovered X-IG-App-ID header value.
	// Normally left empty; the value is scraped from inline scripts.
	AppID string `yaml:"app_id" json:"app_id"`
}

// CaptureConfig holds browser attachment configuration
type CaptureConfig struct {
	// DevtoolsURL is the ws:// or http:// endpoint of a running browser
	// with remote debugging enabled.
	DevtoolsURL    string        `yaml:"devtools_url" json:"devtools_url"`
	SnapshotTimeout time.Duration `yaml:"snapshot_timeout" json:"snapshot_timeout"`
	// BlobWait is the fixed delay granted to the page's own media request
	// before blob correlation is attempted.
	BlobWait time.Duration `yaml:"blob_wait" json:"blob_wait"`
}

// Preferences is the flat per-user preference surface the resolution
// engine reads. It is owned by the settings layer; the core treats it
// as read-only.
type Preferences struct {
	ShowAds          bool   `yaml:"show_ads" json:"show_ads"`
	OpenInNewTab     bool   `yaml:"open_in_new_tab" json:"open_in_new_tab"`
	AutoSlideshow    bool   `yaml:"auto_slideshow" json:"auto_slideshow"`
	FilenameTemplate string `yaml:"filename_template" json:"filename_template"`
	StoriesMuted     bool   `yaml:"stories_muted" json:"stories_muted"`
	NoMultiStories   bool   `yaml:"no_multi_stories" json:"no_multi_stories"`
	// PauseStories clicks the story pause control before scanning, so
	// the progress indicators stop moving under the snapshot.
	PauseStories bool `yaml:"pause_stories" json:"pause_stories"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// OutputConfig holds output directory configuration for downloads
type OutputConfig struct {
	BaseDirectory     string `yaml:"base_directory" json:"base_directory"`
	CreateUserFolders bool   `yaml:"create_user_folders" json:"create_user_folders"`
	OverwriteExisting bool   `yaml:"overwrite_existing" json:"overwrite_existing"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultFilenameTemplate is the placeholder pattern used when the user
// has not configured one.
const DefaultFilenameTemplate = "{Username}__{Year}-{Month}-{Day}--{Hour}-{Minute}"

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		Capture: CaptureConfig{
			DevtoolsURL:     "http://127.0.0.1:9222",
			SnapshotTimeout: 15 * time.Second,
			BlobWait:        500 * time.Millisecond,
		},
		Preferences: Preferences{
			ShowAds:          false,
			OpenInNewTab:     false,
			AutoSlideshow:    false,
			FilenameTemplate: DefaultFilenameTemplate,
			StoriesMuted:     false,
			NoMultiStories:   false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Output: OutputConfig{
			BaseDirectory:     "./downloads",
			CreateUserFolders: true,
			OverwriteExisting: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv("IGRESOLVE_SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken := os.Getenv("IGRESOLVE_CSRF_TOKEN"); csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if userAgent := os.Getenv("IGRESOLVE_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}
	if appID := os.Getenv("IGRESOLVE_APP_ID"); appID != "" {
		c.Instagram.AppID = appID
	}

	if devtools := os.Getenv("IGRESOLVE_DEVTOOLS_URL"); devtools != "" {
		c.Capture.DevtoolsURL = devtools
	}

	if rpm := os.Getenv("IGRESOLVE_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if outputDir := os.Getenv("IGRESOLVE_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	if template := os.Getenv("IGRESOLVE_FILENAME_TEMPLATE"); template != "" {
		c.Preferences.FilenameTemplate = template
	}
	if showAds := os.Getenv("IGRESOLVE_SHOW_ADS"); showAds != "" {
		c.Preferences.ShowAds = strings.ToLower(showAds) == "true"
	}
	if noMulti := os.Getenv("IGRESOLVE_NO_MULTI_STORIES"); noMulti != "" {
		c.Preferences.NoMultiStories = strings.ToLower(noMulti) == "true"
	}
	if pause := os.Getenv("IGRESOLVE_PAUSE_STORIES"); pause != "" {
		c.Preferences.PauseStories = strings.ToLower(pause) == "true"
	}

	if logLevel := os.Getenv("IGRESOLVE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".igresolve.yaml",
		".igresolve.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igresolve", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igresolve", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igresolve.yaml"),
		filepath.Join(os.Getenv("HOME"), ".igresolve.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Capture.DevtoolsURL == "" {
		errs = append(errs, errors.New("devtools URL is required"))
	}
	if c.Capture.SnapshotTimeout <= 0 {
		errs = append(errs, errors.New("snapshot timeout must be positive"))
	}
	if c.Capture.BlobWait < 0 {
		errs = append(errs, errors.New("blob wait cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Preferences.FilenameTemplate == "" {
		errs = append(errs, errors.New("filename template is required"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken, ok := flags["csrf-token"].(string); ok && csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if devtools, ok := flags["devtools-url"].(string); ok && devtools != "" {
		c.Capture.DevtoolsURL = devtools
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igresolve.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
