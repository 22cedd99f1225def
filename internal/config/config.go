// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server settings
type Config struct {
	Host     string
	Port     int
	LogLevel slog.Level

	StorageType string
	RedisURL    string
	DatabaseURL string

	DefaultRounds int
	CORSOrigins   []string
	LockTimeout   time.Duration

	// RandomSeed makes match outcomes reproducible when set
	RandomSeed *uint64
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Port:          8080,
		LogLevel:      slog.LevelInfo,
		StorageType:   "memory",
		DefaultRounds: 5,
		CORSOrigins:   []string{"*"},
		LockTimeout:   10 * time.Second,
	}
}

// Load reads the given .env files (default ".env") when present, then the
// process environment. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if v, ok := lookup("SWISS_HOST"); ok {
		cfg.Host = v
	}

	if v, ok := lookup("SWISS_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SWISS_PORT: %w", err)
		}
		if port <= 0 || port > 65535 {
			return nil, fmt.Errorf("SWISS_PORT must be between 1 and 65535, got %d", port)
		}
		cfg.Port = port
	}

	if v, ok := lookup("SWISS_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid SWISS_LOG_LEVEL: %w", err)
		}
	}

	if v, ok := lookup("STORAGE_TYPE"); ok && v != "" {
		cfg.StorageType = strings.ToLower(v)
	}
	cfg.RedisURL, _ = lookup("REDIS_URL")
	cfg.DatabaseURL, _ = lookup("DATABASE_URL")

	switch cfg.StorageType {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL required when STORAGE_TYPE=postgres")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or postgres", cfg.StorageType)
	}

	if v, ok := lookup("SWISS_DEFAULT_ROUNDS"); ok && v != "" {
		rounds, err := strconv.Atoi(v)
		if err != nil || rounds < 1 {
			return nil, fmt.Errorf("SWISS_DEFAULT_ROUNDS must be a positive integer, got %q", v)
		}
		cfg.DefaultRounds = rounds
	}

	if v, ok := lookup("SWISS_CORS_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	if v, ok := lookup("SWISS_LOCK_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SWISS_LOCK_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("SWISS_LOCK_TIMEOUT must be positive, got %s", v)
		}
		cfg.LockTimeout = d
	}

	if v, ok := lookup("SWISS_RANDOM_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SWISS_RANDOM_SEED: %w", err)
		}
		cfg.RandomSeed = &seed
	}

	return &cfg, nil
}
