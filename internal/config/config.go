package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Config holds application level configuration loaded from file, environment and flags.
type Config struct {
	RunAddress      string        `yaml:"run_address"`
	DatabaseURI     string        `yaml:"database_uri"`
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenStrategy   string        `yaml:"token_strategy"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	BcryptCost      int           `yaml:"bcrypt_cost"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`
}

const (
	StrategyJWT  = "jwt"
	StrategyHMAC = "hmac"
)

const (
	defaultRunAddress      = ":8080"
	defaultTokenStrategy   = StrategyJWT
	defaultTokenTTL        = 15 * time.Minute
	defaultBcryptCost      = bcrypt.DefaultCost
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
)

// Load parses configuration from an optional YAML file, environment variables and flags.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      defaultRunAddress,
		TokenStrategy:   defaultTokenStrategy,
		TokenTTL:        defaultTokenTTL,
		BcryptCost:      defaultBcryptCost,
		ShutdownTimeout: defaultShutdownTimeout,
		LogLevel:        defaultLogLevel,
	}

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.RunAddress = getString(lookup, cfg.RunAddress, "RUN_ADDRESS")
	cfg.DatabaseURI = getString(lookup, cfg.DatabaseURI, "DATABASE_URL", "DATABASE_URI")
	cfg.JWTSecret = getString(lookup, cfg.JWTSecret, "JWT_SECRET_KEY", "JWT_SECRET")
	cfg.TokenStrategy = getString(lookup, cfg.TokenStrategy, "TOKEN_STRATEGY")
	cfg.LogLevel = getString(lookup, cfg.LogLevel, "LOG_LEVEL")

	var err error
	if cfg.TokenTTL, err = getDuration(lookup, "TOKEN_TTL", cfg.TokenTTL); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt(lookup, "BCRYPT_COST", cfg.BcryptCost); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration(lookup, "SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("habittracker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "Database DSN (postgres://... or sqlite://path)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.TokenStrategy, "token-strategy", cfg.TokenStrategy, "Token format: jwt or hmac")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued access tokens")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt work factor")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaultBcryptCost
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}

	if cfg.TokenStrategy != StrategyJWT && cfg.TokenStrategy != StrategyHMAC {
		return nil, fmt.Errorf("unknown token strategy %q", cfg.TokenStrategy)
	}

	if _, err := cfg.Level(); err != nil {
		return nil, err
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

// Level returns the configured slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func readFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return nil
}

// getString returns the first non-empty value among keys, or def.
func getString(lookup envLookup, def string, keys ...string) string {
	for _, key := range keys {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
	}
	return def
}

func getInt(lookup envLookup, key string, def int) (int, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(lookup envLookup, key string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
