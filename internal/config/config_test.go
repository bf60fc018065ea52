package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, ":5175", cfg.Addr())
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 30, cfg.RoundSeconds)
	assert.Equal(t, 3, cfg.StartingLives)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, ":9001", cfg.Addr())
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestParseErrors(t *testing.T) {
	t.Setenv("STARTING_LIVES", "lots")
	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")

	t.Setenv("STARTING_LIVES", "0")
	_, err = Parse()
	assert.Error(t, err)
}

func TestLevelFallback(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, Config{LogLevel: "loud"}.Level())
}
