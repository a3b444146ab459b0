package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-dodge/internal/core"
)

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultDodgeConfig()) {
		t.Errorf("embedded defaults drifted from DefaultDodgeConfig:\n got %+v\nwant %+v", cfg, DefaultDodgeConfig())
	}
}

func TestLoadCustomPathKeepsMissingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("spawning:\n  base_velocity: 90\ndifficulty:\n  progression:\n    duration: 2m\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Spawning.BaseVelocity != 90 {
		t.Errorf("base velocity = %v, expected 90", cfg.Spawning.BaseVelocity)
	}
	if cfg.Difficulty.Progression.Duration != 2*time.Minute {
		t.Errorf("progression duration = %v, expected 2m", cfg.Difficulty.Progression.Duration)
	}
	if cfg.Spawning.ProjectileSize != 20 {
		t.Errorf("projectile size = %v, expected default 20", cfg.Spawning.ProjectileSize)
	}
	if len(cfg.Scoring.Tiers) != 4 {
		t.Errorf("tiers = %d, expected default 4", len(cfg.Scoring.Tiers))
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("play_zone: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestMarshalRoundTripsDurations(t *testing.T) {
	out, err := Marshal(DefaultDodgeConfig())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Difficulty.MinInterval != 800*time.Millisecond {
		t.Errorf("min interval = %v after round trip", cfg.Difficulty.MinInterval)
	}
}

func TestParseRejectsBadIntervals(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		ok   bool
	}{
		{"zero min", "difficulty:\n  min_interval: 0s\n  progression:\n    duration: 1s\n", false},
		{"negative min", "difficulty:\n  min_interval: -1s\n", false},
		{"max below min", "difficulty:\n  max_interval: 500ms\n  min_interval: 1s\n", false},
		{"equal", "difficulty:\n  max_interval: 1s\n  min_interval: 1s\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if tt.ok && err != nil {
				t.Errorf("Parse() error = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Parse() should fail")
				}
				if !strings.HasPrefix(err.Error(), "config: ") {
					t.Errorf("error %q should start with config:", err)
				}
			}
		})
	}
}

func TestLoadRejectsZeroMinInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dodge.yaml")
	if err := os.WriteFile(path, []byte("difficulty:\n  min_interval: 0s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should reject a zero min_interval")
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		level   float64
	}{
		{DifficultyEasy, true, 0.0},
		{DifficultyNormal, true, 0.3},
		{DifficultyHard, true, 0.7},
		{DifficultyFixed, false, 0.0},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultDodgeConfig()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.InitialLevel != tc.level {
				t.Errorf("initial level = %v, expected %v", cfg.Difficulty.InitialLevel, tc.level)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != DifficultyEasy {
		t.Errorf("empty preset = %q, %v", p, err)
	}
	if p, err := ParsePreset("hard"); err != nil || p != DifficultyHard {
		t.Errorf("hard preset = %q, %v", p, err)
	}
	if _, err := ParsePreset("insane"); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestConverters(t *testing.T) {
	cfg := DefaultDodgeConfig()
	zone := cfg.PlayZone.Rect()
	if zone != core.NewRect(0, 0, 480, 480) {
		t.Errorf("zone = %v", zone)
	}

	d := cfg.Difficulty.Model()
	if d.Progression.Duration != time.Minute || d.MaxInterval != 3*time.Second || d.Baseline != 0 {
		t.Errorf("difficulty = %+v", d)
	}

	c := cfg.Collision.Engine(zone)
	if c.Padding != 5 || c.MaxCollisionsPerFrame != 3 || c.PlayZone != zone {
		t.Errorf("collision = %+v", c)
	}

	s := cfg.Scoring.Engine()
	if len(s.Tiers) != 4 || s.Tiers[3].Multiplier != 2.0 || !s.ComboBonusEnabled {
		t.Errorf("scoring = %+v", s)
	}

	sp := cfg.Spawning.Scheduler(zone, 42)
	if sp.Seed != 42 || sp.BaseVelocity != 160 {
		t.Errorf("spawn = %+v", sp)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DODGE_FPS", "30")
	t.Setenv("DODGE_SEED", "99")
	t.Setenv("DODGE_LOG_LEVEL", "debug")

	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if e.FPS != 30 || e.Seed != 99 || e.LogLevel != "debug" {
		t.Errorf("env = %+v", e)
	}
	if e.Category != "classic" {
		t.Errorf("category default = %q, expected classic", e.Category)
	}
}

func TestLoadEnvRejectsBadNumber(t *testing.T) {
	t.Setenv("DODGE_FPS", "fast")
	if _, err := LoadEnv(); err == nil {
		t.Error("non-numeric DODGE_FPS should fail")
	}
}
