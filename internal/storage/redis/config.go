package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SummaryTTL expires the recent games list when no game has finished for this long
	SummaryTTL time.Duration
	// SummaryLimit caps how many game summaries are retained
	SummaryLimit int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		SummaryTTL:   7 * 24 * time.Hour,
		SummaryLimit: 100,
	}
}
