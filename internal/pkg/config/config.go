package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Store  StoreConfig
	Signup SignupConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type StoreConfig struct {
	Backend string `env:"STORE_BACKEND, default=memory"`
	Key     string `env:"STORE_KEY,     default=user"`
}

type SignupConfig struct {
	CommitDelay   time.Duration `env:"SIGNUP_COMMIT_DELAY, default=1s"`
	CommitWorkers int           `env:"COMMIT_WORKERS,      default=4"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=account_entry"`
	Collection string `env:"MONGO_COLLECTION, default=account_slots"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and checks the values envconfig cannot.
func LoadWith(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("STORE_BACKEND: unsupported backend %q", c.Store.Backend)
	}
	if c.Store.Key == "" {
		return fmt.Errorf("STORE_KEY: must not be empty")
	}
	if c.Signup.CommitDelay < 0 {
		return fmt.Errorf("SIGNUP_COMMIT_DELAY: must not be negative")
	}
	if c.Signup.CommitWorkers <= 0 {
		return fmt.Errorf("COMMIT_WORKERS: must be positive")
	}
	return nil
}
