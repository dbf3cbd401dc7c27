// Package config loads server settings from DM_* environment variables
package config

import (
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// Prefix is prepended to every variable name
const Prefix = "DM_"

// Store backends
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Log formats
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Backends lists the accepted store backends
var Backends = []string{BackendRedis, BackendPostgres, BackendSQLite}

// Config is the full server configuration
type Config struct {
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`
	GRPCPort int `env:"GRPC_PORT" envDefault:"50051"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"redis"`
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisMode    string `env:"REDIS_MODE" envDefault:"single"`
	RedisMaster  string `env:"REDIS_MASTER"`
	DatabaseURL  string `env:"DATABASE_URL"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"dungeon-master.db"`

	OpenRouterAPIKey  string `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL"`
	OpenRouterModel   string `env:"OPENROUTER_MODEL"`
	SiteURL           string `env:"SITE_URL"`

	ElevenLabsAPIKey  string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsBaseURL string `env:"ELEVENLABS_BASE_URL"`

	ReplicateAPIToken string `env:"REPLICATE_API_TOKEN"`
	ReplicateBaseURL  string `env:"REPLICATE_BASE_URL"`
	ReplicateModel    string `env:"REPLICATE_MODEL"`

	SRDBaseURL  string        `env:"SRD_BASE_URL"`
	SRDCacheTTL time.Duration `env:"SRD_CACHE_TTL" envDefault:"24h"`

	// RollGroupingExpr selects the expr-lang related-roll classifier; empty uses keywords
	RollGroupingExpr string        `env:"ROLL_GROUPING_EXPR"`
	PendingRollTTL   time.Duration `env:"PENDING_ROLL_TTL" envDefault:"15m"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to read .env")
	}
	return parse(env.Options{Prefix: Prefix})
}

// FromMap parses settings from an explicit variable map instead of the environment
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the server cannot start without
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	errors.ValidateRange("DM_HTTP_PORT", c.HTTPPort, 1, 65535, vb)
	errors.ValidateRange("DM_GRPC_PORT", c.GRPCPort, 1, 65535, vb)
	errors.ValidateEnum("DM_STORE_BACKEND", c.StoreBackend, Backends, vb)
	errors.ValidateEnum("DM_LOG_FORMAT", c.LogFormat, []string{LogFormatJSON, LogFormatText}, vb)

	switch c.StoreBackend {
	case BackendRedis:
		errors.ValidateRequired("DM_REDIS_ADDR", c.RedisAddr, vb)
		if c.RedisMode == "failover" {
			errors.ValidateRequired("DM_REDIS_MASTER", c.RedisMaster, vb)
		}
	case BackendPostgres:
		errors.ValidateRequired("DM_DATABASE_URL", c.DatabaseURL, vb)
	case BackendSQLite:
		errors.ValidateRequired("DM_SQLITE_PATH", c.SQLitePath, vb)
	}

	if c.PendingRollTTL <= 0 {
		vb.InvalidField("DM_PENDING_ROLL_TTL", "must be positive")
	}
	if c.RateLimitRPS < 0 {
		vb.InvalidField("DM_RATE_LIMIT_RPS", "must not be negative")
	}
	if c.RateLimitBurst < 1 {
		vb.InvalidField("DM_RATE_LIMIT_BURST", "must be at least 1")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.InvalidField("DM_LOG_LEVEL", "must be one of debug, info, warn, error")
	}

	return vb.Build()
}

// SlogLevel returns the configured log level
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
