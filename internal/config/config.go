// internal/config/config.go
//
// Environment configuration for the game server.
// A .env file in the working directory is loaded first (development), then the
// environment is parsed into Config.
//
// Environment variables:
//   PORT=5175              HTTP listen port
//   LOG_LEVEL=info         zerolog level
//   LOG_PRETTY=false       human-readable console logs
//   DB_PATH=./data/darts.db  SQLite file holding the high score
//   CLIENT_ORIGIN=http://localhost:5173
//   TOKEN_SECRET=...       HMAC key for player tokens
//   TICK_INTERVAL=1s       countdown step
//   ROUND_SECONDS=30       seconds per question
//   STARTING_LIVES=3
//   MAX_DRAWS=10000        question sampling cap

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Port          string        `env:"PORT" envDefault:"5175"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty     bool          `env:"LOG_PRETTY" envDefault:"false"`
	DBPath        string        `env:"DB_PATH" envDefault:"./data/darts.db"`
	ClientOrigin  string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	TokenSecret   string        `env:"TOKEN_SECRET" envDefault:"dev_secret_change_me"`
	TickInterval  time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	RoundSeconds  int           `env:"ROUND_SECONDS" envDefault:"30"`
	StartingLives int           `env:"STARTING_LIVES" envDefault:"3"`
	MaxDraws      int           `env:"MAX_DRAWS" envDefault:"10000"`
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.TickInterval <= 0 {
		return Config{}, fmt.Errorf("invalid TICK_INTERVAL %s", c.TickInterval)
	}
	if c.RoundSeconds <= 0 || c.StartingLives <= 0 {
		return Config{}, fmt.Errorf("ROUND_SECONDS and STARTING_LIVES must be positive")
	}
	return c, nil
}

// Level parses LogLevel, defaulting to info on garbage.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }
