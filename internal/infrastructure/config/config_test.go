package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userdesk/internal/infrastructure/kv"
)

var envKeys = []string{
	"PORT", "FRONTEND_URL", "STORE_BACKEND", "DATABASE_PATH", "BOLT_PATH",
	"SLOT_KEY", "REMOTE_URL", "LOG_LEVEL", "LOG_FORMAT", "MEMCACHE_ADDRS",
	"STORE_QUOTA_BYTES", "REMOTE_DISABLED", "API_LATENCY", "REMOTE_TIMEOUT",
}

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "userdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8005", cfg.Port)
	assert.Equal(t, ":8005", cfg.Addr())
	assert.Equal(t, kv.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "dummy_users_v1", cfg.Store.SlotKey)
	assert.Equal(t, 200*time.Millisecond, cfg.Latency.Duration())
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout.Duration())
	assert.True(t, cfg.RemoteEnabled())
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: "9000"
latency: 0s
store:
  backend: bolt
  bolt_path: /tmp/users.bolt
  memcache_addrs: ["a:1", "b:2"]
remote:
  disabled: true
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, time.Duration(0), cfg.Latency.Duration())
	assert.Equal(t, kv.BackendBolt, cfg.Store.Backend)
	assert.Equal(t, "/tmp/users.bolt", cfg.Store.BoltPath)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Store.MemcacheAddrs)
	assert.False(t, cfg.RemoteEnabled())
	assert.Equal(t, "json", cfg.Log.Format)

	// unset keys keep their defaults
	assert.Equal(t, "dummy_users_v1", cfg.Store.SlotKey)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: \"9000\"\nstore:\n  backend: bolt\n")
	t.Setenv("PORT", "9100")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("STORE_QUOTA_BYTES", "4096")
	t.Setenv("API_LATENCY", "50ms")
	t.Setenv("MEMCACHE_ADDRS", "m1:11211, m2:11211,")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, kv.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, int64(4096), cfg.Store.QuotaBytes)
	assert.Equal(t, 50*time.Millisecond, cfg.Latency.Duration())
	assert.Equal(t, []string{"m1:11211", "m2:11211"}, cfg.Store.MemcacheAddrs)

	opts := cfg.KVOptions()
	assert.Equal(t, kv.BackendMemory, opts.Backend)
	assert.Equal(t, int64(4096), opts.QuotaBytes)
}

func TestLoadInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_LATENCY", "soon")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_LATENCY")
}

func TestLoadInvalidYAMLDuration(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "latency: fast\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "unknown store backend"},
		{"empty slot key", func(c *Config) { c.Store.SlotKey = "" }, "slot key"},
		{"negative latency", func(c *Config) { c.Latency = Duration(-time.Second) }, "latency"},
		{"zero remote timeout", func(c *Config) { c.Remote.Timeout = 0 }, "remote timeout"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())

	cfg.FrontendURL = "http://localhost:3000, https://*.example.com,"
	assert.Equal(t, []string{"http://localhost:3000", "https://*.example.com"}, cfg.AllowedOrigins())
}
