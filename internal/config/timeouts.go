package config

import (
	"os"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Command  time.Duration // Timeout for namespace/secret/listing operations
	Install  time.Duration // Timeout for the release install readiness wait
	Shutdown time.Duration // Timeout for graceful HTTP shutdown
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - SHOPSTACK_TIMEOUT_COMMAND (default: 2m)
//   - SHOPSTACK_TIMEOUT_INSTALL (default: 10m)
//   - SHOPSTACK_TIMEOUT_SHUTDOWN (default: 10s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Command:  parseDuration("SHOPSTACK_TIMEOUT_COMMAND", 2*time.Minute),
		Install:  parseDuration("SHOPSTACK_TIMEOUT_INSTALL", 10*time.Minute),
		Shutdown: parseDuration("SHOPSTACK_TIMEOUT_SHUTDOWN", 10*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}
