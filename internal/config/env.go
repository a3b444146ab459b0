package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds settings read from the environment. Command-line flags win
// over these when both are set.
type Env struct {
	FPS        int    `env:"DODGE_FPS" envDefault:"60"`
	Seed       int64  `env:"DODGE_SEED"`
	DBPath     string `env:"DODGE_DB"`
	LogLevel   string `env:"DODGE_LOG_LEVEL" envDefault:"info"`
	ConfigPath string `env:"DODGE_CONFIG"`
	Difficulty string `env:"DODGE_DIFFICULTY" envDefault:"easy"`
	Category   string `env:"DODGE_CATEGORY" envDefault:"classic"`
}

// LoadEnv parses environment variables into Env.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("config: parse env: %w", err)
	}
	return e, nil
}
