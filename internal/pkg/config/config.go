package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Carrier   CarrierConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

type CarrierConfig struct {
	URL         string        `env:"CARRIER_URL,          default=https://zaicargo.controlbox.net/app/rastreo/rastreo.asp?I="`
	UserAgent   string        `env:"CARRIER_USER_AGENT,   default=Mozilla/5.0 (99minutos carrier-tracking)"`
	SubmitLabel string        `env:"CARRIER_SUBMIT_LABEL, default=Buscar"`
	PageSize    string        `env:"CARRIER_PAGE_SIZE,    default=00001"`
	Timeout     time.Duration `env:"CARRIER_TIMEOUT,      default=0s"`
}

// MongoConfig enables the lookup audit trail when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=carrier_tracking"`
}

// RedisConfig enables rate limiting when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// RateLimitConfig sets requests per client IP and minute. Zero or less turns
// limiting off.
type RateLimitConfig struct {
	PerMinute int `env:"RATE_LIMIT_PER_MINUTE, default=30"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) *Config {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// IsDevelopment reports whether the service runs with human-friendly defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
