// Package config loads userdesk settings from defaults, an optional YAML
// file and environment variables, in that order of precedence (later wins).
//
// Example file:
//
//	port: "8005"
//	latency: 200ms
//	store:
//	  backend: bolt
//	  bolt_path: ./data/userdesk.bolt
//	remote:
//	  url: https://dummyjson.com/users
//	  timeout: 5s
//	log:
//	  level: debug
//	  format: json
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"userdesk/internal/infrastructure/kv"
)

func init() {
	// Load .env file if it exists (ignores error if not found)
	godotenv.Load()
}

type Config struct {
	Port        string       `yaml:"port"`
	FrontendURL string       `yaml:"frontend_url"`
	Latency     Duration     `yaml:"latency"`
	Store       StoreConfig  `yaml:"store"`
	Remote      RemoteConfig `yaml:"remote"`
	Log         LogConfig    `yaml:"log"`
}

type StoreConfig struct {
	Backend       string   `yaml:"backend"`
	DatabasePath  string   `yaml:"database_path"`
	BoltPath      string   `yaml:"bolt_path"`
	MemcacheAddrs []string `yaml:"memcache_addrs"`
	SlotKey       string   `yaml:"slot_key"`
	QuotaBytes    int64    `yaml:"quota_bytes"` // memory backend only
}

type RemoteConfig struct {
	URL      string   `yaml:"url"`
	Timeout  Duration `yaml:"timeout"`
	Disabled bool     `yaml:"disabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration wraps time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:        "8005",
		FrontendURL: "*",
		Latency:     Duration(200 * time.Millisecond),
		Store: StoreConfig{
			Backend:       kv.BackendSQLite,
			DatabasePath:  "./data/userdesk.db",
			BoltPath:      "./data/userdesk.bolt",
			MemcacheAddrs: []string{kv.DefaultMemcacheAddr},
			SlotKey:       "dummy_users_v1",
		},
		Remote: RemoteConfig{
			URL:     "https://dummyjson.com/users",
			Timeout: Duration(5 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrideString(&c.Port, "PORT")
	overrideString(&c.FrontendURL, "FRONTEND_URL")
	overrideString(&c.Store.Backend, "STORE_BACKEND")
	overrideString(&c.Store.DatabasePath, "DATABASE_PATH")
	overrideString(&c.Store.BoltPath, "BOLT_PATH")
	overrideString(&c.Store.SlotKey, "SLOT_KEY")
	overrideString(&c.Remote.URL, "REMOTE_URL")
	overrideString(&c.Log.Level, "LOG_LEVEL")
	overrideString(&c.Log.Format, "LOG_FORMAT")

	if value, ok := lookupEnv("MEMCACHE_ADDRS"); ok {
		c.Store.MemcacheAddrs = splitList(value)
	}

	var errs []error
	if value, ok := lookupEnv("STORE_QUOTA_BYTES"); ok {
		quota, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid STORE_QUOTA_BYTES value %q: %w", value, err))
		}
		c.Store.QuotaBytes = quota
	}
	if value, ok := lookupEnv("REMOTE_DISABLED"); ok {
		disabled, err := strconv.ParseBool(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid REMOTE_DISABLED value %q: %w", value, err))
		}
		c.Remote.Disabled = disabled
	}
	errs = append(errs,
		overrideDuration(&c.Latency, "API_LATENCY"),
		overrideDuration(&c.Remote.Timeout, "REMOTE_TIMEOUT"),
	)
	return errors.Join(errs...)
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	var errs []error

	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Port))
	}
	if !kv.IsBackend(c.Store.Backend) {
		errs = append(errs, fmt.Errorf("unknown store backend %q (expected one of %s)",
			c.Store.Backend, strings.Join(kv.Backends, ", ")))
	}
	if c.Store.SlotKey == "" {
		errs = append(errs, errors.New("slot key must not be empty"))
	}
	if c.Store.QuotaBytes < 0 {
		errs = append(errs, fmt.Errorf("store quota must not be negative, got %d", c.Store.QuotaBytes))
	}
	if c.Latency < 0 {
		errs = append(errs, fmt.Errorf("latency must not be negative, got %s", c.Latency.Duration()))
	}
	if c.RemoteEnabled() && c.Remote.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("remote timeout must be positive, got %s", c.Remote.Timeout.Duration()))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q (expected text or json)", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}

// AllowedOrigins returns the CORS origins listed in FrontendURL
func (c *Config) AllowedOrigins() []string {
	return splitList(c.FrontendURL)
}

// RemoteEnabled reports whether the remote directory should be queried
func (c *Config) RemoteEnabled() bool {
	return !c.Remote.Disabled && c.Remote.URL != ""
}

// KVOptions returns the options for opening the configured slot backend
func (c *Config) KVOptions() kv.Options {
	return kv.Options{
		Backend:       c.Store.Backend,
		DatabasePath:  c.Store.DatabasePath,
		BoltPath:      c.Store.BoltPath,
		MemcacheAddrs: c.Store.MemcacheAddrs,
		QuotaBytes:    c.Store.QuotaBytes,
	}
}

func lookupEnv(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func overrideString(dst *string, key string) {
	if value, ok := lookupEnv(key); ok {
		*dst = value
	}
}

func overrideDuration(dst *Duration, key string) error {
	value, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	*dst = Duration(d)
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
