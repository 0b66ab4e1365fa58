package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "static", cfg.Identity.Type)
	assert.Equal(t, "sqlite", cfg.Gateway.Type)
	assert.Equal(t, 3, cfg.Store.RetryAttempts)
	assert.False(t, cfg.Advisor.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	with := func(mod func(c *Config)) *Config {
		c := Default()
		mod(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "unknown identity type",
			config:  with(func(c *Config) { c.Identity.Type = "oauth" }),
			wantErr: true,
			errMsg:  "identity.type must be",
		},
		{
			name:    "static without handle",
			config:  with(func(c *Config) { c.Identity.Handle = "" }),
			wantErr: true,
			errMsg:  "identity.handle is required",
		},
		{
			name:    "token without secret",
			config:  with(func(c *Config) { c.Identity.Type = "token" }),
			wantErr: true,
			errMsg:  "identity.secret is required",
		},
		{
			name:    "sqlite without path",
			config:  with(func(c *Config) { c.Gateway.DBPath = "" }),
			wantErr: true,
			errMsg:  "gateway db_path required",
		},
		{
			name:    "rest without key",
			config:  with(func(c *Config) { c.Gateway = GatewayConfig{Type: "rest", URL: "http://x"} }),
			wantErr: true,
			errMsg:  "gateway url and api_key required",
		},
		{
			name:    "memory gateway",
			config:  with(func(c *Config) { c.Gateway = GatewayConfig{Type: "memory"} }),
			wantErr: false,
		},
		{
			name:    "bad gateway timeout",
			config:  with(func(c *Config) { c.Gateway.Timeout = "soon" }),
			wantErr: true,
			errMsg:  "gateway.timeout",
		},
		{
			name:    "advisor without key",
			config:  with(func(c *Config) { c.Advisor.Enabled = true }),
			wantErr: true,
			errMsg:  "advisor.api_key is required",
		},
		{
			name:    "negative persist timeout",
			config:  with(func(c *Config) { c.Store.PersistTimeout = "-1s" }),
			wantErr: true,
			errMsg:  "store.persist_timeout must not be negative",
		},
		{
			name:    "zero retry attempts",
			config:  with(func(c *Config) { c.Store.RetryAttempts = 0 }),
			wantErr: true,
			errMsg:  "store.retry_attempts must be at least 1",
		},
		{
			name:    "bad log level",
			config:  with(func(c *Config) { c.Log.Level = "chatty" }),
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "bad log format",
			config:  with(func(c *Config) { c.Log.Format = "xml" }),
			wantErr: true,
			errMsg:  "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tests := []struct {
		name string
		ext  string
	}{
		{"JSON", ".json"},
		{"YAML", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "config"+tt.ext)

			original := Default()
			original.Identity.Handle = "ada@example.com"
			original.Gateway.DBPath = "/tmp/grid.sqlite"
			original.Log.Level = "debug"

			require.NoError(t, original.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, original, loaded)
		})
	}
}

func TestLoadCommentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
  // who is signed in
  "identity": {"type": "static", "handle": "grace@example.com"},
  "gateway": {"type": "memory"}, /* no disk */
  "store": {"persist_timeout": "5s", "advisor_timeout": "1s", "retry_attempts": 2, "retry_step": "10ms"}
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", cfg.Identity.Handle)
	assert.Equal(t, "memory", cfg.Gateway.Type)
	assert.Equal(t, 2, cfg.Store.RetryAttempts)
	assert.Equal(t, "warn", cfg.Log.Level, "unset sections keep their defaults")
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(tmpDir, "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("identity: [not, a, map"), 0600))
	_, err = LoadFromFile(path)
	assert.Error(t, err)

	path = filepath.Join(tmpDir, "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gateway:\n  type: carrier-pigeon\n"), 0600))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestDuration(t *testing.T) {
	d, err := Duration("", 3*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)

	d, err = Duration("250ms", 0)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	_, err = Duration("later", 0)
	assert.Error(t, err)
}
