package checkout

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is a configuration for the checkout application. Every field can be
// set from YAML or overridden from the environment.
type Config struct {
	HTTPAddr string `yaml:"http_addr" env:"HTTP_ADDR" env-default:"localhost:9090"`
	// ExpiryTZ is an IANA timezone name used to decide whether a card has
	// expired (e.g. "Africa/Lagos").
	ExpiryTZ        string        `yaml:"expiry_tz" env:"EXPIRY_TZ" env-default:"UTC"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`

	Store     StoreConfig     `yaml:"store"`
	Events    EventsConfig    `yaml:"events"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" env:"STORE_BACKEND" env-default:"memory"`
	DSN     string `yaml:"dsn" env:"DB_DSN"`
	// Migrate applies the PostgreSQL schema on start.
	Migrate bool        `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Username    string        `yaml:"username" env:"REDIS_USER"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries  int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
	// TTL expires abandoned carts. Zero keeps them forever.
	TTL    time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"0s"`
	Prefix string        `yaml:"prefix" env:"REDIS_PREFIX" env-default:"novacart:"`
}

type EventsConfig struct {
	// AMQPURL enables order events. Empty disables publishing.
	AMQPURL  string `yaml:"amqp_url" env:"AMQP_URL"`
	Exchange string `yaml:"exchange" env:"AMQP_EXCHANGE" env-default:"checkout"`
}

type RateLimitConfig struct {
	// RPS of zero turns rate limiting off.
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"0"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:        "localhost:9090",
		ExpiryTZ:        "UTC",
		ShutdownTimeout: 10 * time.Second,
		Store: StoreConfig{
			Backend: BackendMemory,
			Migrate: true,
			Redis: RedisConfig{
				Addr:        "localhost:6379",
				MaxRetries:  3,
				DialTimeout: 5 * time.Second,
				Timeout:     3 * time.Second,
				Prefix:      "novacart:",
			},
		},
		Events:    EventsConfig{Exchange: "checkout"},
		RateLimit: RateLimitConfig{Burst: 20},
	}
}

// LoadConfig reads path when it is set and the environment otherwise.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves ExpiryTZ, defaulting to UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.ExpiryTZ == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.ExpiryTZ)
	if err != nil {
		return nil, fmt.Errorf("expiry timezone %q: %w", c.ExpiryTZ, err)
	}
	return loc, nil
}
