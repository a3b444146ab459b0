package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/dodge.yaml
var defaultDodgeYAML []byte

// DefaultDodgeConfig returns the hardcoded dodge configuration. It matches
// the embedded defaults/dodge.yaml.
func DefaultDodgeConfig() DodgeConfig {
	return DodgeConfig{
		PlayZone: PlayZoneConfig{
			Width:    480,
			Height:   480,
			Columns:  3,
			Rows:     3,
			Tiles:    3,
			TileSize: 50,
		},
		Spawning: SpawningConfig{
			ProjectileSize: 20,
			BaseVelocity:   160,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:     "time",
				Duration: 60 * time.Second,
				MaxAt:    100,
			},
			MaxInterval:    3 * time.Second,
			MinInterval:    800 * time.Millisecond,
			VelocityBoost:  0.3,
			PointsPerLevel: 10,
		},
		Collision: CollisionConfig{
			Padding:     5,
			MaxPerFrame: 3,
		},
		Scoring: ScoringConfig{
			BasePoints:     1,
			ComboBonus:     true,
			BonusThreshold: 5,
			Tiers: []TierConfig{
				{Combo: 5, Multiplier: 1.1},
				{Combo: 10, Multiplier: 1.2},
				{Combo: 20, Multiplier: 1.5},
				{Combo: 50, Multiplier: 2.0},
			},
			DecayDelay: 2 * time.Second,
		},
		Session: SessionConfig{
			Lives: 3,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultDodgeYAML
}
