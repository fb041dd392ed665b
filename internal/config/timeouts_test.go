package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeoutsDefaults(t *testing.T) {
	tm := LoadTimeouts()

	assert.Equal(t, 2*time.Minute, tm.Command)
	assert.Equal(t, 10*time.Minute, tm.Install)
	assert.Equal(t, 10*time.Second, tm.Shutdown)
}

func TestLoadTimeoutsFromEnv(t *testing.T) {
	t.Setenv("SHOPSTACK_TIMEOUT_COMMAND", "30s")
	t.Setenv("SHOPSTACK_TIMEOUT_INSTALL", "5m")

	tm := LoadTimeouts()

	assert.Equal(t, 30*time.Second, tm.Command)
	assert.Equal(t, 5*time.Minute, tm.Install)
}

func TestLoadTimeoutsInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("SHOPSTACK_TIMEOUT_COMMAND", "not-a-duration")

	tm := LoadTimeouts()

	assert.Equal(t, 2*time.Minute, tm.Command)
}
