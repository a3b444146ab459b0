package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "dodge.yaml"

// Load loads the dodge configuration. Values missing from a file keep
// their defaults.
// Search order: customPath -> ~/.dodge/configs/dodge.yaml -> ./configs/dodge.yaml -> embedded default
func Load(customPath string) (DodgeConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DodgeConfig{}, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return DodgeConfig{}, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(fileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", fileName)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultDodgeYAML)
	if err != nil {
		return DefaultDodgeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the hardcoded defaults and validates the result.
func Parse(data []byte) (DodgeConfig, error) {
	cfg := DefaultDodgeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DodgeConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return DodgeConfig{}, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c DodgeConfig) Validate() error {
	d := c.Difficulty
	if d.MinInterval <= 0 {
		return fmt.Errorf("config: difficulty.min_interval must be positive, got %s", d.MinInterval)
	}
	if d.MaxInterval < d.MinInterval {
		return fmt.Errorf("config: difficulty.max_interval %s is below min_interval %s", d.MaxInterval, d.MinInterval)
	}
	return nil
}

// Marshal encodes the configuration as YAML.
func Marshal(cfg DodgeConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dodge", "configs", filename)
}
