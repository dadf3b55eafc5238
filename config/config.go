package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxPerGender is used when capacity.default_max_per_gender is unset.
const DefaultMaxPerGender = 4

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Admin      AdminConfig      `yaml:"admin"`
	Capacity   CapacityConfig   `yaml:"capacity"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// AdminConfig holds administrator credentials. An empty token denies all
// admin requests.
type AdminConfig struct {
	Token string `yaml:"token"`
}

// CapacityConfig holds the process-wide default per-gender capacity.
type CapacityConfig struct {
	DefaultMaxPerGender *int `yaml:"default_max_per_gender"`
}

// PushConfig holds the VAPID keys for admin web push notifications.
// Push is disabled when the keys are empty.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Capacity.DefaultMaxPerGender == nil || *cfg.Capacity.DefaultMaxPerGender < 0 {
		if cfg.Capacity.DefaultMaxPerGender != nil {
			log.Printf("capacity.default_max_per_gender is negative; defaulting to %d", DefaultMaxPerGender)
		}
		def := DefaultMaxPerGender
		cfg.Capacity.DefaultMaxPerGender = &def
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}

// DefaultMax returns the resolved default per-gender capacity.
func (c *Config) DefaultMax() int {
	if c.Capacity.DefaultMaxPerGender == nil {
		return DefaultMaxPerGender
	}
	return *c.Capacity.DefaultMaxPerGender
}
