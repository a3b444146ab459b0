// Package difficulty maps session time (and optionally score) to a
// normalized difficulty factor that drives spawn pacing and projectile speed.
package difficulty

import (
	"time"

	"github.com/vovakirdan/tui-dodge/internal/core"
)

// Progression types.
const (
	ProgressTime  = "time"
	ProgressScore = "score"
	ProgressNone  = "none"
)

// Progression describes how the factor grows during a session.
type Progression struct {
	Type        string        // "time", "score" or "none"
	Duration    time.Duration // time to reach full difficulty
	ScoreForMax int           // score that reaches full difficulty
}

// Config holds difficulty tuning.
type Config struct {
	Enabled        bool
	Baseline       float64 // starting factor (0.0 to 1.0)
	Progression    Progression
	MaxInterval    time.Duration // spawn interval at factor 0
	MinInterval    time.Duration // spawn interval at factor 1
	VelocityBoost  float64       // extra speed fraction at factor 1
	PointsPerLevel int
}

// DefaultConfig returns the stock tuning: 60s ramp from 3.0s to 0.8s spawn
// interval with up to +30% velocity.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Baseline: 0,
		Progression: Progression{
			Type:        ProgressTime,
			Duration:    60 * time.Second,
			ScoreForMax: 100,
		},
		MaxInterval:    3 * time.Second,
		MinInterval:    800 * time.Millisecond,
		VelocityBoost:  0.3,
		PointsPerLevel: 10,
	}
}

// Model tracks difficulty for a single session.
type Model struct {
	cfg      Config
	elapsed  time.Duration
	score    int
	factor   float64
	level    int
	baseline float64
}

// New creates a model at its initial state.
func New(cfg Config) *Model {
	m := &Model{cfg: cfg}
	m.Reset()
	return m
}

// Config returns the model's tuning.
func (m *Model) Config() Config {
	return m.cfg
}

// IsProgressive reports whether the factor grows over the session.
func (m *Model) IsProgressive() bool {
	return m.cfg.Enabled && m.cfg.Progression.Type != ProgressNone
}

// Reset returns the model to its initial state. Called once per session.
func (m *Model) Reset() {
	m.baseline = core.ClampF(m.cfg.Baseline, 0, 1)
	m.elapsed = 0
	m.score = 0
	m.factor = m.baseline
	m.level = 1
}

// Update recomputes the factor from session elapsed time. The factor never
// decreases, so a stale or out-of-order elapsed value is harmless.
func (m *Model) Update(elapsed time.Duration) {
	if elapsed > m.elapsed {
		m.elapsed = elapsed
	}
	m.recompute()
}

// ObserveScore feeds the current score into score-based progression.
func (m *Model) ObserveScore(score int) {
	if score > m.score {
		m.score = score
	}
	m.recompute()
}

func (m *Model) recompute() {
	if !m.IsProgressive() {
		return
	}

	var progress float64
	switch m.cfg.Progression.Type {
	case ProgressTime:
		d := m.cfg.Progression.Duration
		if d <= 0 {
			progress = 1
		} else {
			progress = float64(m.elapsed) / float64(d)
		}
	case ProgressScore:
		maxAt := m.cfg.Progression.ScoreForMax
		if maxAt <= 0 {
			maxAt = 1 // Prevent division by zero
		}
		progress = float64(m.score) / float64(maxAt)
	default:
		return
	}

	progress = core.ClampF(progress, 0, 1)
	f := core.ClampF(m.baseline+progress*(1-m.baseline), 0, 1)
	if f > m.factor {
		m.factor = f
	}
}

// Factor returns the current difficulty factor in [0, 1].
func (m *Model) Factor() float64 {
	return m.factor
}

// Elapsed returns the latest elapsed time seen by Update.
func (m *Model) Elapsed() time.Duration {
	return m.elapsed
}

// SpawnInterval interpolates between MaxInterval (factor 0) and
// MinInterval (factor 1).
func (m *Model) SpawnInterval() time.Duration {
	span := float64(m.cfg.MaxInterval - m.cfg.MinInterval)
	return m.cfg.MaxInterval - time.Duration(span*m.factor)
}

// VelocityMultiplier returns 1 + factor*VelocityBoost; never below 1.
func (m *Model) VelocityMultiplier() float64 {
	return 1 + m.factor*m.cfg.VelocityBoost
}

// AdvanceLevelForScore raises the level to score/PointsPerLevel + 1.
// The level never goes down. Returns true when the level changed.
func (m *Model) AdvanceLevelForScore(score int) bool {
	per := m.cfg.PointsPerLevel
	if per <= 0 {
		per = 10
	}
	next := score/per + 1
	if next > m.level {
		m.level = next
		return true
	}
	return false
}

// Level returns the current level number, starting at 1.
func (m *Model) Level() int {
	return m.level
}
