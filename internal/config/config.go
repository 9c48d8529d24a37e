package config

import (
	"errors"
	"fmt"
	"time"
)

// Config carries every runtime knob for the server. Values are populated by
// the flag/env layer in cmd/web; Validate runs before anything is started.
type Config struct {
	Bind            string
	Port            int
	DatabaseURL     string
	LobbyTTL        time.Duration
	CodeLength      int
	RoundDuration   int // seconds, reported to clients with game_started
	CleanupInterval time.Duration
	StaticDir       string
	Verbose         bool
}

// Default returns the configuration used when no flag or env override is set.
func Default() Config {
	return Config{
		Bind:            "0.0.0.0",
		Port:            8080,
		LobbyTTL:        30 * time.Minute,
		CodeLength:      5,
		RoundDuration:   60,
		CleanupInterval: 5 * time.Minute,
	}
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.CodeLength < 1 {
		return errors.New("lobby code length must be positive")
	}
	if c.RoundDuration < 1 {
		return errors.New("round duration must be positive")
	}
	if c.LobbyTTL <= 0 {
		return errors.New("lobby ttl must be positive")
	}
	if c.CleanupInterval <= 0 {
		return errors.New("cleanup interval must be positive")
	}
	return nil
}
