// Package config provides YAML-based game configuration loading,
// difficulty presets and environment overrides for the dodge arcade.
package config

import (
	"time"

	"github.com/vovakirdan/tui-dodge/internal/collision"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/difficulty"
	"github.com/vovakirdan/tui-dodge/internal/scoring"
	"github.com/vovakirdan/tui-dodge/internal/spawn"
)

// DodgeConfig contains all configuration for a dodge session.
type DodgeConfig struct {
	PlayZone   PlayZoneConfig   `yaml:"play_zone"`
	Spawning   SpawningConfig   `yaml:"spawning"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Collision  CollisionConfig  `yaml:"collision"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Session    SessionConfig    `yaml:"session"`
}

// PlayZoneConfig defines the play zone and the tiles inside it.
// Units are world units; the front-end scales them to the terminal.
type PlayZoneConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Columns  int     `yaml:"columns"` // slot lattice columns
	Rows     int     `yaml:"rows"`    // slot lattice rows
	Tiles    int     `yaml:"tiles"`
	TileSize float64 `yaml:"tile_size"`
}

// SpawningConfig defines projectile parameters.
type SpawningConfig struct {
	ProjectileSize float64 `yaml:"projectile_size"`
	BaseVelocity   float64 `yaml:"base_velocity"` // units per second
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled        bool              `yaml:"enabled"`
	InitialLevel   float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression    ProgressionConfig `yaml:"progression"`
	MaxInterval    time.Duration     `yaml:"max_interval"`
	MinInterval    time.Duration     `yaml:"min_interval"`
	VelocityBoost  float64           `yaml:"velocity_boost"` // speed added at max difficulty
	PointsPerLevel int               `yaml:"points_per_level"`
}

// ProgressionConfig defines how difficulty increases over a session.
type ProgressionConfig struct {
	Type     string        `yaml:"type"`     // "time", "score", or "none"
	Duration time.Duration `yaml:"duration"` // time to max difficulty
	MaxAt    int           `yaml:"max_at"`   // score at max difficulty
}

// CollisionConfig defines detection tolerances.
type CollisionConfig struct {
	Padding      float64 `yaml:"padding"`
	MaxPerFrame  int     `yaml:"max_per_frame"`
	GridCellSize float64 `yaml:"grid_cell_size"` // 0 disables the spatial grid
}

// ScoringConfig defines points and combo rules.
type ScoringConfig struct {
	BasePoints     int           `yaml:"base_points"`
	ComboBonus     bool          `yaml:"combo_bonus"`
	BonusThreshold int           `yaml:"bonus_threshold"`
	Tiers          []TierConfig  `yaml:"tiers"`
	Decay          bool          `yaml:"decay"`
	DecayDelay     time.Duration `yaml:"decay_delay"`
}

// TierConfig is one combo bonus step.
type TierConfig struct {
	Combo      int     `yaml:"combo"`
	Multiplier float64 `yaml:"multiplier"`
}

// SessionConfig defines session limits.
type SessionConfig struct {
	Lives     int           `yaml:"lives"`      // collisions allowed; 0 = unlimited
	TimeLimit time.Duration `yaml:"time_limit"` // 0 = unlimited
}

// Rect returns the play zone anchored at the origin.
func (c PlayZoneConfig) Rect() core.Rect {
	return core.NewRect(0, 0, c.Width, c.Height)
}

// Scheduler converts to spawn scheduler settings.
func (c SpawningConfig) Scheduler(zone core.Rect, seed int64) spawn.Config {
	return spawn.Config{
		PlayZone:       zone,
		ProjectileSize: c.ProjectileSize,
		BaseVelocity:   c.BaseVelocity,
		Seed:           seed,
	}
}

// Model converts to difficulty model settings.
func (c DifficultyConfig) Model() difficulty.Config {
	return difficulty.Config{
		Enabled:  c.Enabled,
		Baseline: c.InitialLevel,
		Progression: difficulty.Progression{
			Type:        c.Progression.Type,
			Duration:    c.Progression.Duration,
			ScoreForMax: c.Progression.MaxAt,
		},
		MaxInterval:    c.MaxInterval,
		MinInterval:    c.MinInterval,
		VelocityBoost:  c.VelocityBoost,
		PointsPerLevel: c.PointsPerLevel,
	}
}

// Engine converts to collision engine settings.
func (c CollisionConfig) Engine(zone core.Rect) collision.Config {
	return collision.Config{
		Padding:               c.Padding,
		MaxCollisionsPerFrame: c.MaxPerFrame,
		GridCellSize:          c.GridCellSize,
		PlayZone:              zone,
	}
}

// Engine converts to scoring engine settings.
func (c ScoringConfig) Engine() scoring.Config {
	tiers := make([]scoring.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		tiers = append(tiers, scoring.Tier{Combo: t.Combo, Multiplier: t.Multiplier})
	}
	return scoring.Config{
		BasePoints:        c.BasePoints,
		ComboBonusEnabled: c.ComboBonus,
		BonusThreshold:    c.BonusThreshold,
		Tiers:             tiers,
		DecayEnabled:      c.Decay,
		DecayDelay:        c.DecayDelay,
	}
}
