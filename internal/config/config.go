package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file lives relative to the working directory.
const DefaultPath = ".docchat/config.yaml"

// Config holds all docchat configuration.
type Config struct {
	// Root address of the question-answering backend. Both /query and
	// /addDocuments are resolved against it.
	BackendURL string `yaml:"backend_url"`

	RequestTimeout string `yaml:"request_timeout"`
	UploadTimeout  string `yaml:"upload_timeout"`

	// How long the "uploaded" marker stays visible after a successful upload.
	UploadFlash string `yaml:"upload_flash"`

	Theme string `yaml:"theme"` // light, dark

	Documents DocumentsConfig `yaml:"documents"`
	Watch     WatchConfig     `yaml:"watch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DocumentsConfig controls which local files are offered for upload.
type DocumentsConfig struct {
	Extensions           []string `yaml:"extensions"`
	MaxConcurrentUploads int      `yaml:"max_concurrent_uploads"`
}

// WatchConfig configures the directory watcher.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:     "http://localhost:5000",
		RequestTimeout: "60s",
		UploadTimeout:  "120s",
		UploadFlash:    "3s",
		Theme:          "light",

		Documents: DocumentsConfig{
			Extensions:           []string{".pdf", ".txt"},
			MaxConcurrentUploads: 4,
		},

		Watch: WatchConfig{
			Debounce: "500ms",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   ".docchat/logs/docchat.log",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv("DOCCHAT_BACKEND_URL"); u != "" {
		c.BackendURL = u
	}
	if d := os.Getenv("DOCCHAT_REQUEST_TIMEOUT"); d != "" {
		c.RequestTimeout = d
	}
	if os.Getenv("DOCCHAT_DARK_MODE") == "1" {
		c.Theme = "dark"
	}
	if lvl := os.Getenv("DOCCHAT_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// GetRequestTimeout returns the /query timeout as a duration.
func (c *Config) GetRequestTimeout() time.Duration {
	return parseDuration(c.RequestTimeout, 60*time.Second)
}

// GetUploadTimeout returns the /addDocuments timeout as a duration.
func (c *Config) GetUploadTimeout() time.Duration {
	return parseDuration(c.UploadTimeout, 120*time.Second)
}

// GetUploadFlash returns how long the upload marker stays visible.
func (c *Config) GetUploadFlash() time.Duration {
	return parseDuration(c.UploadFlash, 3*time.Second)
}

// GetWatchDebounce returns the quiet period the watcher waits before uploading.
func (c *Config) GetWatchDebounce() time.Duration {
	return parseDuration(c.Watch.Debounce, 500*time.Millisecond)
}

// GetMaxConcurrentUploads returns the upload worker limit, at least 1.
func (c *Config) GetMaxConcurrentUploads() int {
	if c.Documents.MaxConcurrentUploads < 1 {
		return 1
	}
	return c.Documents.MaxConcurrentUploads
}

// IsSupportedDocument reports whether path has one of the configured extensions.
// An empty extension list accepts every file.
func (c *Config) IsSupportedDocument(path string) bool {
	if len(c.Documents.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range c.Documents.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend URL not configured (set backend_url or DOCCHAT_BACKEND_URL)")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL %q: %w", c.BackendURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend URL %q: scheme must be http or https", c.BackendURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid backend URL %q: missing host", c.BackendURL)
	}
	if c.Theme != "" && c.Theme != "light" && c.Theme != "dark" {
		return fmt.Errorf("invalid theme: %s (valid: light, dark)", c.Theme)
	}
	return nil
}
