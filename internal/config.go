package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the client configuration, loaded from config.yaml, .env and the environment
type Config struct {
	APIURL         string        `yaml:"api_url"`
	LogLevel       string        `yaml:"log_level"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	History        HistoryConfig `yaml:"history"`
	Stub           StubConfig    `yaml:"stub"`
}

// HistoryConfig controls the transcript archive
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// StubConfig controls the local development backend
type StubConfig struct {
	Addr string `yaml:"addr"`
}

// HistoryEnabled reports whether transcripts should be archived
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// DefaultConfigPath returns ~/.config/ytchat/config.yaml
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "ytchat", "config.yaml")
}

// DefaultDataDir returns the directory for the history database and TUI log
func DefaultDataDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".ytchat"
	}
	return filepath.Join(dir, "ytchat")
}

// LoadConfig reads path (missing file is fine when it is the default path),
// loads .env from the working directory, then applies environment overrides
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		LogDebug("ignoring .env: %v", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		data = nil
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig unmarshals YAML bytes into a Config with defaults applied
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse: %w", err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in default values
func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(DefaultDataDir(), "history.db")
	}
	if c.Stub.Addr == "" {
		c.Stub.Addr = "127.0.0.1:8000"
	}
}

// applyEnv lets YTCHAT_* variables override file values
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("YTCHAT_API_URL"); ok && v != "" {
		c.APIURL = strings.TrimRight(v, "/")
	}
	if v, ok := os.LookupEnv("YTCHAT_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("YTCHAT_HISTORY_DB"); ok && v != "" {
		c.History.Path = v
	}
	if v, ok := os.LookupEnv("YTCHAT_HISTORY"); ok && v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.History.Enabled = &enabled
		}
	}
	if v, ok := os.LookupEnv("YTCHAT_REQUEST_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
}

// Validate checks that fields are usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api_url %q is not an absolute URL", c.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: api_url scheme must be http or https, got %q", u.Scheme)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request_timeout must not be negative")
	}
	return nil
}
