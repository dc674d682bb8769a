package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"recurcal/internal/form"
	appLog "recurcal/internal/log"
)

// NOTE: Load creates the config file with defaults on first run and writes
// it with 0600 permissions, since it may hold Basic Auth credentials.

const (
	defaultListen         = "127.0.0.1:8080"
	defaultLogLevel       = "info"
	defaultMaxOccurrences = 1000
	defaultMaxWindowDays  = form.DefaultMaxWindowDays
	defaultCacheTTL       = 30
	defaultCachePurge     = "*/5 * * * *"

	defaultSnapshotURL     = "http://127.0.0.1:8080/calendar"
	defaultSnapshotWidth   = 984
	defaultSnapshotHeight  = 1304
	defaultSnapshotTimeout = 30
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// SnapshotConfig controls headless-browser captures of the calendar page.
type SnapshotConfig struct {
	// URL is the page to capture. Query parameters select the rule.
	URL string `yaml:"url" json:"url"`
	// Width and Height set the browser viewport in CSS pixels.
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	// TimeoutSeconds bounds the whole capture.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// MaxOccurrences caps the count of any single expansion.
	MaxOccurrences int `yaml:"max_occurrences" json:"max_occurrences"`

	// MaxWindowDays caps the length of the display range, inclusive.
	MaxWindowDays int `yaml:"max_window_days" json:"max_window_days"`

	// CacheTTLSeconds is how long rendered responses are reused.
	// Zero disables the response cache.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" json:"cache_ttl_seconds"`

	// CachePurge is a cron-style schedule (e.g. "*/5 * * * *") for dropping
	// expired cache entries.
	CachePurge string `yaml:"cache_purge" json:"cache_purge"`

	// Defaults pre-fill the generator form and the CLI flags.
	Defaults form.Defaults `yaml:"defaults" json:"defaults"`

	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          defaultListen,
		LogLevel:        defaultLogLevel,
		MaxOccurrences:  defaultMaxOccurrences,
		MaxWindowDays:   defaultMaxWindowDays,
		CacheTTLSeconds: defaultCacheTTL,
		CachePurge:      defaultCachePurge,
		Defaults:        form.DefaultDefaults(),
		Snapshot: SnapshotConfig{
			URL:            defaultSnapshotURL,
			Width:          defaultSnapshotWidth,
			Height:         defaultSnapshotHeight,
			TimeoutSeconds: defaultSnapshotTimeout,
		},
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		c.LogLevel = defaultLogLevel
	}
	if c.MaxOccurrences <= 0 {
		c.MaxOccurrences = defaultMaxOccurrences
	}
	if c.MaxWindowDays <= 0 {
		c.MaxWindowDays = defaultMaxWindowDays
	}
	if c.CacheTTLSeconds < 0 {
		c.CacheTTLSeconds = 0
	}
	if c.CachePurge == "" {
		c.CachePurge = defaultCachePurge
	}

	def := form.DefaultDefaults()
	if c.Defaults.StartDate == "" {
		c.Defaults.StartDate = def.StartDate
	}
	if c.Defaults.RuleType == "" {
		c.Defaults.RuleType = def.RuleType
	}
	if c.Defaults.DayOfMonth <= 0 {
		c.Defaults.DayOfMonth = def.DayOfMonth
	}
	if c.Defaults.Time == "" {
		c.Defaults.Time = def.Time
	}
	if c.Defaults.Count <= 0 {
		c.Defaults.Count = def.Count
	}
	if c.Defaults.RangeStart == "" {
		c.Defaults.RangeStart = def.RangeStart
	}
	if c.Defaults.RangeEnd == "" {
		c.Defaults.RangeEnd = def.RangeEnd
	}

	if c.Snapshot.URL == "" {
		c.Snapshot.URL = defaultSnapshotURL
	}
	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = defaultSnapshotWidth
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = defaultSnapshotHeight
	}
	if c.Snapshot.TimeoutSeconds <= 0 {
		c.Snapshot.TimeoutSeconds = defaultSnapshotTimeout
	}
}

// Validate reports settings that Normalize cannot repair: an unparsable
// purge schedule or form defaults that do not describe a valid rule.
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.CachePurge); err != nil {
		return fmt.Errorf("cache_purge %q: %w", c.CachePurge, err)
	}
	req := form.NewRequest(c.Defaults)
	req.MaxWindowDays = c.MaxWindowDays
	if _, _, err := req.Parse(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if c.BasicAuth != nil && c.BasicAuth.Username == "" {
		return errors.New("basic_auth: username is empty")
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults and validate
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg with the error so the caller can decide.
				return cfg, err
			}
			appLog.Info("wrote default config", "path", path)
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".recurcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
