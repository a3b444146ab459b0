package session

import (
	"time"

	"github.com/vovakirdan/tui-dodge/internal/collision"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/difficulty"
	"github.com/vovakirdan/tui-dodge/internal/scoring"
	"github.com/vovakirdan/tui-dodge/internal/spawn"
)

// State is the orchestrator lifecycle state.
type State int

const (
	Dormant State = iota
	Initialized
	Executing
	Suspended
	Concluded
)

func (s State) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Initialized:
		return "initialized"
	case Executing:
		return "executing"
	case Suspended:
		return "suspended"
	case Concluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// Reason tells why a session concluded.
type Reason int

const (
	ReasonPlayerQuit Reason = iota
	ReasonOutOfLives
	ReasonTimeUp
)

func (r Reason) String() string {
	switch r {
	case ReasonPlayerQuit:
		return "player_quit"
	case ReasonOutOfLives:
		return "out_of_lives"
	case ReasonTimeUp:
		return "time_up"
	default:
		return "unknown"
	}
}

// ParseReason is the inverse of Reason.String.
func ParseReason(s string) (Reason, bool) {
	for _, r := range []Reason{ReasonPlayerQuit, ReasonOutOfLives, ReasonTimeUp} {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// Features toggles optional behavior per session.
type Features struct {
	ComboBonus          bool
	ComboDecay          bool
	SpatialGrid         bool
	EndOnCollisionLimit bool
}

// Configuration is supplied once at Initialize.
type Configuration struct {
	Category           string
	DifficultyBaseline float64
	Features           Features

	Lives     int           // collisions allowed with EndOnCollisionLimit
	TimeLimit time.Duration // 0 = unlimited
	Seed      int64

	PlayZone   core.Rect
	Difficulty difficulty.Config
	Spawn      spawn.Config
	Collision  collision.Config
	Scoring    scoring.Config
}

// DefaultConfiguration returns a classic three-lives session over a
// 480x480 zone.
func DefaultConfiguration() Configuration {
	zone := core.NewRect(0, 0, 480, 480)
	return Configuration{
		Category: "classic",
		Features: Features{
			ComboBonus:          true,
			EndOnCollisionLimit: true,
		},
		Lives:      3,
		PlayZone:   zone,
		Difficulty: difficulty.DefaultConfig(),
		Spawn: spawn.Config{
			PlayZone:       zone,
			ProjectileSize: 20,
			BaseVelocity:   160,
		},
		Collision: collision.DefaultConfig(),
		Scoring:   scoring.DefaultConfig(),
	}
}

// defaultGridCell is used when SpatialGrid is on without a cell size.
const defaultGridCell = 80

// resolved applies the feature flags and shared fields onto the
// per-component settings.
func (c Configuration) resolved() Configuration {
	c.Difficulty.Baseline = c.DifficultyBaseline

	c.Spawn.PlayZone = c.PlayZone
	c.Spawn.Seed = c.Seed
	c.Collision.PlayZone = c.PlayZone

	if c.Features.SpatialGrid {
		if c.Collision.GridCellSize <= 0 {
			c.Collision.GridCellSize = defaultGridCell
		}
	} else {
		c.Collision.GridCellSize = 0
	}

	c.Scoring.ComboBonusEnabled = c.Features.ComboBonus
	c.Scoring.DecayEnabled = c.Features.ComboDecay
	return c
}

// Result is the immutable summary of a concluded session.
type Result struct {
	SessionID   string
	Category    string
	Reason      Reason
	FinalScore  int
	Duration    time.Duration
	PeakCombo   int
	Dodges      int
	Collisions  int
	SuccessRate float64
	Level       int
	Difficulty  float64 // factor at conclusion
	Frames      uint64
	EndedAt     time.Time
}
