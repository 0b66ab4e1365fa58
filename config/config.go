package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the config file when no --config flag is given.
const EnvConfigPath = "WEALTHGRID_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Identity IdentityConfig `json:"identity" yaml:"identity"`
	Gateway  GatewayConfig  `json:"gateway" yaml:"gateway"`
	Advisor  AdvisorConfig  `json:"advisor" yaml:"advisor"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// IdentityConfig says who is signed in
type IdentityConfig struct {
	Type   string `json:"type" yaml:"type"` // "static" or "token"
	UserID string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Handle string `json:"handle,omitempty" yaml:"handle,omitempty"`
	Token  string `json:"token,omitempty" yaml:"token,omitempty"`
	Secret string `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// GatewayConfig selects the remote record store
type GatewayConfig struct {
	Type       string  `json:"type" yaml:"type"` // "sqlite", "rest" or "memory"
	DBPath     string  `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	URL        string  `json:"url,omitempty" yaml:"url,omitempty"`
	APIKey     string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Timeout    string  `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "30s"
	RatePerSec float64 `json:"rate_per_sec,omitempty" yaml:"rate_per_sec,omitempty"`
}

// AdvisorConfig configures the advisory chat completions service
type AdvisorConfig struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	URL        string  `json:"url,omitempty" yaml:"url,omitempty"`
	APIKey     string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model      string  `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout    string  `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	RatePerSec float64 `json:"rate_per_sec,omitempty" yaml:"rate_per_sec,omitempty"`
}

// StoreConfig tunes the synchronisation engine
type StoreConfig struct {
	PersistTimeout string `json:"persist_timeout" yaml:"persist_timeout"`
	AdvisorTimeout string `json:"advisor_timeout" yaml:"advisor_timeout"`
	RetryAttempts  int    `json:"retry_attempts" yaml:"retry_attempts"`
	RetryStep      string `json:"retry_step" yaml:"retry_step"` // linear backoff step
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // console or json
}

// Duration parses s, returning def for an empty string.
func Duration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

// LoadFromFile loads configuration from a YAML, JSON or commented JSON file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// JSON files may carry comments. Anything else is tried as YAML first.
	if isJSON(path) {
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func isJSON(path string) bool {
	return strings.HasSuffix(path, ".json") || strings.HasSuffix(path, ".jsonc")
}

// SaveToFile saves configuration as YAML or JSON depending on the extension
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Identity.Type {
	case "static":
		if c.Identity.Handle == "" {
			return fmt.Errorf("identity.handle is required for static identity")
		}
	case "token":
		if c.Identity.Secret == "" {
			return fmt.Errorf("identity.secret is required for token identity")
		}
	default:
		return fmt.Errorf("identity.type must be 'static' or 'token'")
	}

	switch c.Gateway.Type {
	case "sqlite":
		if c.Gateway.DBPath == "" {
			return fmt.Errorf("gateway db_path required for SQLite type")
		}
	case "rest":
		if c.Gateway.URL == "" || c.Gateway.APIKey == "" {
			return fmt.Errorf("gateway url and api_key required for REST type")
		}
	case "memory":
	default:
		return fmt.Errorf("gateway.type must be 'sqlite', 'rest' or 'memory'")
	}
	if _, err := Duration(c.Gateway.Timeout, 0); err != nil {
		return fmt.Errorf("gateway.timeout: %w", err)
	}

	if c.Advisor.Enabled && c.Advisor.APIKey == "" {
		return fmt.Errorf("advisor.api_key is required when the advisor is enabled")
	}
	if _, err := Duration(c.Advisor.Timeout, 0); err != nil {
		return fmt.Errorf("advisor.timeout: %w", err)
	}

	for name, v := range map[string]string{
		"store.persist_timeout": c.Store.PersistTimeout,
		"store.advisor_timeout": c.Store.AdvisorTimeout,
		"store.retry_step":      c.Store.RetryStep,
	} {
		d, err := Duration(v, 0)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.Store.RetryAttempts < 1 {
		return fmt.Errorf("store.retry_attempts must be at least 1")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Identity: IdentityConfig{
			Type:   "static",
			Handle: "me@example.com",
		},
		Gateway: GatewayConfig{
			Type:    "sqlite",
			DBPath:  "./wealthgrid.sqlite",
			Timeout: "30s",
		},
		Advisor: AdvisorConfig{
			Enabled: false,
			Timeout: "30s",
		},
		Store: StoreConfig{
			PersistTimeout: "15s",
			AdvisorTimeout: "10s",
			RetryAttempts:  3,
			RetryStep:      "500ms",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
