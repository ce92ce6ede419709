package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig tunes the fixed-window rate limiter applied to the
// POS ingestion endpoints.  Limits are per client IP per window.
type RateLimitConfig struct {
	Enabled bool
	Prefix  string        // key namespace in redis
	Limit   int           // requests allowed per window
	Window  time.Duration // window length
}

// LoadRateLimit reads the rate limiter settings from the environment.
// The limiter is on by default; set RATE_LIMIT_ENABLED=false to turn it
// off entirely.
func LoadRateLimit() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: true,
		Prefix:  "rl:pos",
		Limit:   120,
		Window:  time.Minute,
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v == "false" || v == "0" {
		cfg.Enabled = false
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limit = n
		}
	}
	return cfg
}
