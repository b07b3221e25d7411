package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dosada05/tournament-standings/storage"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	BackendGraphQLURL string
	BackendTimeout    time.Duration
	JWTSecretKey      string
	ServerPort        int

	PollInterval    time.Duration
	PollConcurrency int

	SnapshotStore string
	SnapshotTTL   time.Duration
	RedisURL      string
	DatabaseURL   string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// R2 is the export storage configuration.
func (c *Config) R2() storage.CloudflareR2UploaderConfig {
	return storage.CloudflareR2UploaderConfig{
		AccountID:       c.R2AccountID,
		AccessKeyID:     c.R2AccessKeyID,
		SecretAccessKey: c.R2SecretAccessKey,
		BucketName:      c.R2BucketName,
		PublicBaseURL:   c.R2PublicBaseURL,
	}
}

// Load reads the configuration from the environment, after loading a .env
// file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BackendGraphQLURL: getenv("BACKEND_GRAPHQL_URL"),
		JWTSecretKey:      getenv("JWT_SECRET_KEY"),
		RedisURL:          getenv("REDIS_URL"),
		DatabaseURL:       getenv("DATABASE_URL"),
		R2AccountID:       getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.BackendGraphQLURL == "" {
		return nil, errors.New("BACKEND_GRAPHQL_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY environment variable is not set")
	}

	var err error
	if cfg.ServerPort, err = intVar(getenv, "SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.BackendTimeout, err = durationVar(getenv, "BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = durationVar(getenv, "POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollConcurrency, err = intVar(getenv, "POLL_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.PollConcurrency <= 0 {
		return nil, fmt.Errorf("POLL_CONCURRENCY must be positive, got %d", cfg.PollConcurrency)
	}
	if cfg.SnapshotTTL, err = durationVar(getenv, "SNAPSHOT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = floatVar(getenv, "RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = intVar(getenv, "RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}

	cfg.SnapshotStore = strings.ToLower(strings.TrimSpace(getenv("SNAPSHOT_STORE")))
	switch cfg.SnapshotStore {
	case "":
		cfg.SnapshotStore = StoreMemory
	case StoreMemory:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required when SNAPSHOT_STORE is redis")
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when SNAPSHOT_STORE is postgres")
		}
	default:
		return nil, fmt.Errorf("SNAPSHOT_STORE must be one of memory, redis, postgres, got %q", cfg.SnapshotStore)
	}

	for _, origin := range strings.Split(getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.R2().Partial() {
		return nil, errors.New("R2 export storage is partially configured: set all R2_* variables or none")
	}

	return cfg, nil
}

func intVar(getenv func(string) string, name string, def int) (int, error) {
	raw := getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

func floatVar(getenv func(string) string, name string, def float64) (float64, error) {
	raw := getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s environment variable: %q", name, raw)
	}
	return v, nil
}

func durationVar(getenv func(string) string, name string, def time.Duration) (time.Duration, error) {
	raw := getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, v)
	}
	return v, nil
}
