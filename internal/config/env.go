package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are the process-level options read from the environment.
type Settings struct {
	ConfigPath string   `env:"SMOR_CONFIG"`
	Seed       int64    `env:"SMOR_SEED"`
	Players    []string `env:"SMOR_PLAYERS" envSeparator:"," envDefault:"Sjefen,Sård,Eddie"`
	BotLevel   string   `env:"SMOR_BOT_LEVEL" envDefault:"random"`
	LogLevel   string   `env:"SMOR_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Resolve loads the game config named by the settings, or the defaults when none is set.
func (s Settings) Resolve() (*GameConfig, error) {
	c := Default()
	if s.ConfigPath != "" {
		var err error
		if c, err = LoadGameConfig(s.ConfigPath); err != nil {
			return nil, err
		}
	}
	if s.BotLevel != "" {
		c.BotLevel = s.BotLevel
	}
	return c, nil
}
