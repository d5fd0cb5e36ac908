package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL,   default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// StorageDriver selects the repository implementation: mongo or memory.
	StorageDriver string `env:"STORAGE_DRIVER, default=mongo"`

	Mongo MongoConfig
	Redis RedisConfig
	Login LoginConfig
	HTTP  HTTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=backlog"`
	// Transactions wraps cascades in session transactions; needs a replica set.
	Transactions bool `env:"MONGO_TRANSACTIONS, default=false"`
}

type RedisConfig struct {
	// Addr may be empty to run without Redis; login throttling is then off.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type HTTPConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`
	RateLimitRPS float64  `env:"RATE_LIMIT_RPS,     default=20"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	switch c.StorageDriver {
	case StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}
