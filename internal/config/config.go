package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	MailChimp MailChimpConfig `yaml:"mailchimp"`
	Locking   LockingConfig   `yaml:"locking"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                   int      `yaml:"port"`
	Host                   string   `yaml:"host"`
	AllowedOrigins         []string `yaml:"allowed_origins"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// ShutdownTimeout returns the graceful shutdown deadline as a duration
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	URL                    string `yaml:"url"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// ConnMaxLifetime returns the pool connection lifetime as a duration
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// RedisConfig holds the optional Redis connection used for member locks.
// An empty URL disables Redis; locks then fall back to Postgres advisory locks.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// MailChimpConfig holds MailChimp Marketing API configuration
type MailChimpConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c MailChimpConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LockingConfig controls the per-member mutation lock
type LockingConfig struct {
	Enabled     bool `yaml:"enabled"`
	TTLSeconds  int  `yaml:"ttl_seconds"`
	WaitMillis  int  `yaml:"wait_millis"`
	RetryMillis int  `yaml:"retry_millis"`
}

// TTL returns how long a held lock survives a crashed holder
func (c LockingConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Wait returns how long a request waits for a busy lock
func (c LockingConfig) Wait() time.Duration {
	return time.Duration(c.WaitMillis) * time.Millisecond
}

// RetryInterval returns the pause between acquire attempts
func (c LockingConfig) RetryInterval() time.Duration {
	return time.Duration(c.RetryMillis) * time.Millisecond
}

// LogConfig holds logger settings
type LogConfig struct {
	Level            string `yaml:"level"`
	DisableRedaction bool   `yaml:"disable_redaction"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that depend on each other. A lock must outlive
// the MailChimp call made while holding it.
func (cfg *Config) Validate() error {
	if cfg.Locking.TTL() <= cfg.MailChimp.Timeout() {
		return fmt.Errorf("locking.ttl_seconds (%d) must be greater than mailchimp.timeout_seconds (%d)",
			cfg.Locking.TTLSeconds, cfg.MailChimp.TimeoutSeconds)
	}
	return nil
}

func (cfg *Config) setDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = 10
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 20
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes == 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 5
	}
	if cfg.MailChimp.TimeoutSeconds == 0 {
		cfg.MailChimp.TimeoutSeconds = 30
	}
	if cfg.Locking.TTLSeconds == 0 {
		cfg.Locking.TTLSeconds = 2 * cfg.MailChimp.TimeoutSeconds
	}
	if cfg.Locking.WaitMillis == 0 {
		cfg.Locking.WaitMillis = 2000
	}
	if cfg.Locking.RetryMillis == 0 {
		cfg.Locking.RetryMillis = 50
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in production.
// A missing config file is not an error: defaults plus env vars are used.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &Config{}
		cfg.setDefaults()
	} else if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("MAILCHIMP_API_KEY"); v != "" {
		cfg.MailChimp.APIKey = v
	}
	if v := os.Getenv("MAILCHIMP_BASE_URL"); v != "" {
		cfg.MailChimp.BaseURL = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MEMBER_LOCKS_ENABLED"); v != "" {
		cfg.Locking.Enabled = v == "true" || v == "1"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
