package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ScheduleTTL expires stored schedules; zero keeps them until replaced
	ScheduleTTL time.Duration

	// Lock settings
	LockTTL           time.Duration
	LockRetryInterval time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:               "redis://localhost:6379",
		PoolSize:          10,
		MinIdleConns:      2,
		ScheduleTTL:       0,
		LockTTL:           30 * time.Second,
		LockRetryInterval: 25 * time.Millisecond,
	}
}
