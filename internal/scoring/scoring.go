// Package scoring accumulates points for dodged projectiles and tracks the
// combo of consecutive dodges.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/vovakirdan/tui-dodge/internal/clock"
)

// Tier is a combo bonus step: from Combo onward points are multiplied.
type Tier struct {
	Combo      int
	Multiplier float64
}

// DefaultTiers is the stock bonus table.
var DefaultTiers = []Tier{
	{Combo: 5, Multiplier: 1.1},
	{Combo: 10, Multiplier: 1.2},
	{Combo: 20, Multiplier: 1.5},
	{Combo: 50, Multiplier: 2.0},
}

// Config holds scoring tuning.
type Config struct {
	BasePoints        int
	ComboBonusEnabled bool
	BonusThreshold    int
	Tiers             []Tier
	DecayEnabled      bool
	DecayDelay        time.Duration
}

// DefaultConfig returns 1 point per dodge, combo bonus from 5, decay off.
func DefaultConfig() Config {
	return Config{
		BasePoints:        1,
		ComboBonusEnabled: true,
		BonusThreshold:    5,
		Tiers:             append([]Tier(nil), DefaultTiers...),
		DecayEnabled:      false,
		DecayDelay:        2 * time.Second,
	}
}

// Phase is the combo state.
type Phase int

const (
	ComboZero Phase = iota
	ComboBuilding
	ComboDecaying
)

func (p Phase) String() string {
	switch p {
	case ComboZero:
		return "zero"
	case ComboBuilding:
		return "building"
	case ComboDecaying:
		return "decaying"
	default:
		return "unknown"
	}
}

// State is the live score.
type State struct {
	TotalScore int
	Combo      int
	PeakCombo  int
	Dodges     int
	Collisions int
}

// Summary is an immutable snapshot for session results.
type Summary struct {
	FinalScore  int
	PeakCombo   int
	Dodges      int
	Collisions  int
	SuccessRate float64 // dodges / (dodges + collisions), 1 with no attempts
}

// Engine mutates the score state. Decay timers run on the shared timer
// queue, so every call happens on the goroutine that pumps it.
type Engine struct {
	cfg    Config
	timers *clock.Timers
	state  State
	phase  Phase

	decayTimer clock.TimerID
	decayArmed bool
	suspended  bool
}

// New creates an engine with zeroed state. timers may be nil when decay
// is disabled.
func New(cfg Config, timers *clock.Timers) *Engine {
	tiers := append([]Tier(nil), cfg.Tiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Combo < tiers[j].Combo })
	cfg.Tiers = tiers
	if timers == nil {
		cfg.DecayEnabled = false
	}
	return &Engine{cfg: cfg, timers: timers}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// State returns a copy of the live score.
func (e *Engine) State() State {
	return e.state
}

// Phase returns the combo state.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Multiplier returns the bonus multiplier for a combo value, or 1 when no
// bonus applies.
func (e *Engine) Multiplier(combo int) float64 {
	if !e.cfg.ComboBonusEnabled || combo < e.cfg.BonusThreshold {
		return 1
	}
	m := 1.0
	for _, t := range e.cfg.Tiers {
		if combo < t.Combo {
			break
		}
		m = t.Multiplier
	}
	return m
}

// AwardDodge credits one dodge and returns the points added. The bonus
// uses the combo before this dodge is counted.
func (e *Engine) AwardDodge() int {
	points := int(math.Floor(float64(e.cfg.BasePoints) * e.Multiplier(e.state.Combo)))
	if points < 1 {
		points = 1
	}

	e.state.TotalScore += points
	e.state.Dodges++
	e.state.Combo++
	e.state.PeakCombo = max(e.state.PeakCombo, e.state.Combo)
	e.phase = ComboBuilding
	e.armDecay()
	return points
}

// RegisterCollision breaks the combo. The score is kept.
func (e *Engine) RegisterCollision() {
	e.state.Collisions++
	e.state.Combo = 0
	e.phase = ComboZero
	e.disarmDecay()
}

// ResetAll zeroes the state. Called once per session start.
func (e *Engine) ResetAll() {
	e.disarmDecay()
	e.state = State{}
	e.phase = ComboZero
	e.suspended = false
}

// SuspendDecay stops the decay clock while the session is paused.
func (e *Engine) SuspendDecay() {
	e.suspended = true
	e.disarmDecay()
}

// ResumeDecay restarts a full decay delay after a pause.
func (e *Engine) ResumeDecay() {
	e.suspended = false
	if e.state.Combo > 0 {
		e.armDecay()
	}
}

// Summary returns a snapshot of the final numbers.
func (e *Engine) Summary() Summary {
	attempts := e.state.Dodges + e.state.Collisions
	rate := 1.0
	if attempts > 0 {
		rate = float64(e.state.Dodges) / float64(attempts)
	}
	return Summary{
		FinalScore:  e.state.TotalScore,
		PeakCombo:   e.state.PeakCombo,
		Dodges:      e.state.Dodges,
		Collisions:  e.state.Collisions,
		SuccessRate: rate,
	}
}

func (e *Engine) armDecay() {
	if !e.cfg.DecayEnabled || e.suspended {
		return
	}
	e.disarmDecay()
	e.decayTimer = e.timers.After(e.cfg.DecayDelay, e.decay)
	e.decayArmed = true
}

func (e *Engine) disarmDecay() {
	if e.decayArmed {
		e.timers.Cancel(e.decayTimer)
		e.decayArmed = false
	}
}

func (e *Engine) decay() {
	e.decayArmed = false
	if e.suspended || e.state.Combo == 0 {
		return
	}
	e.state.Combo--
	if e.state.Combo == 0 {
		e.phase = ComboZero
		return
	}
	e.phase = ComboDecaying
	e.armDecay()
}
