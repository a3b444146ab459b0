// Package spawn schedules projectile spawns at difficulty-scaled intervals
// and tracks which spawned projectiles are still in flight.
package spawn

import (
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-dodge/internal/clock"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/difficulty"
	"github.com/vovakirdan/tui-dodge/internal/trajectory"
)

// minSpawnInterval keeps a zero interval from rescheduling at the same
// instant forever.
const minSpawnInterval = 10 * time.Millisecond

// State is the scheduler lifecycle state.
type State int

const (
	Inactive State = iota
	Active
	Paused
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// RemovalReason tells why a projectile left the active set.
type RemovalReason int

const (
	Completed RemovalReason = iota // crossed the play zone untouched
	Collided
)

func (r RemovalReason) String() string {
	if r == Collided {
		return "collided"
	}
	return "completed"
}

// Descriptor is everything needed to create one projectile. It never
// changes after the scheduler emits it.
type Descriptor struct {
	ID        string
	Direction trajectory.Direction
	Origin    core.Point // center at spawn
	Terminus  core.Point // center at end of travel
	Duration  time.Duration
	Size      float64 // width and height
	Velocity  float64 // units per second, multiplier applied
}

// PositionAt returns the projectile center after flying for d.
// Progress is clamped to the trajectory.
func (d Descriptor) PositionAt(elapsed time.Duration) core.Point {
	if d.Duration <= 0 {
		return d.Terminus
	}
	t := core.ClampF(float64(elapsed)/float64(d.Duration), 0, 1)
	return d.Origin.Lerp(d.Terminus, t)
}

// BoundsAt returns the projectile bounding box after flying for d.
func (d Descriptor) BoundsAt(elapsed time.Duration) core.Rect {
	return core.RectAround(d.PositionAt(elapsed), d.Size, d.Size)
}

// Config holds spawning parameters.
type Config struct {
	PlayZone       core.Rect
	ProjectileSize float64
	BaseVelocity   float64 // units per second before the difficulty multiplier
	Seed           int64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithIDGenerator replaces the default UUID id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Scheduler) { s.newID = fn }
}

// WithCalculator replaces the seeded trajectory calculator.
func WithCalculator(c *trajectory.Calculator) Option {
	return func(s *Scheduler) { s.calc = c }
}

// Scheduler emits spawn descriptors from a self-rescheduling timer.
// All methods must be called from the goroutine that pumps the timers.
type Scheduler struct {
	cfg    Config
	timers *clock.Timers
	diff   *difficulty.Model
	calc   *trajectory.Calculator
	newID  func() string

	state   State
	pending clock.TimerID
	armed   bool
	gen     uint64

	active  map[string]struct{}
	spawned int

	onSpawn   []func(Descriptor)
	onRemoval []func(id string, reason RemovalReason)
}

// New creates an inactive scheduler.
func New(cfg Config, timers *clock.Timers, diff *difficulty.Model, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:    cfg,
		timers: timers,
		diff:   diff,
		active: make(map[string]struct{}),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.calc == nil {
		s.calc = trajectory.NewCalculator(cfg.Seed)
	}
	return s
}

// OnSpawn adds a listener called for every emitted descriptor.
func (s *Scheduler) OnSpawn(fn func(Descriptor)) {
	s.onSpawn = append(s.onSpawn, fn)
}

// OnRemoval adds a listener called once per id leaving the active set.
func (s *Scheduler) OnRemoval(fn func(id string, reason RemovalReason)) {
	s.onRemoval = append(s.onRemoval, fn)
}

// State returns the current scheduler state.
func (s *Scheduler) State() State {
	return s.state
}

// Activate starts spawning. Only valid from Inactive.
func (s *Scheduler) Activate() bool {
	if s.state != Inactive {
		return false
	}
	s.state = Active
	s.schedule()
	return true
}

// Deactivate stops spawning from any state and forgets every tracked id.
func (s *Scheduler) Deactivate() {
	s.cancel()
	s.state = Inactive
	clear(s.active)
}

// Pause cancels the pending spawn. Only valid from Active.
func (s *Scheduler) Pause() bool {
	if s.state != Active {
		return false
	}
	s.cancel()
	s.state = Paused
	return true
}

// Resume schedules the next spawn using a freshly computed interval.
// Time remaining before the pause is not preserved.
func (s *Scheduler) Resume() bool {
	if s.state != Paused {
		return false
	}
	s.state = Active
	s.schedule()
	return true
}

// TriggerImmediateSpawn spawns one projectile now without touching the
// pending timer. Only valid while Active.
func (s *Scheduler) TriggerImmediateSpawn() (Descriptor, bool) {
	if s.state != Active {
		return Descriptor{}, false
	}
	return s.spawn(), true
}

// RegisterCompletion removes a projectile that finished its trajectory.
// Returns false when the id is not tracked.
func (s *Scheduler) RegisterCompletion(id string) bool {
	return s.remove(id, Completed)
}

// RegisterCollision removes a projectile that hit a block.
// Returns false when the id is not tracked.
func (s *Scheduler) RegisterCollision(id string) bool {
	return s.remove(id, Collided)
}

// SetPlayZone changes the zone used for subsequent spawns.
func (s *Scheduler) SetPlayZone(zone core.Rect) {
	s.cfg.PlayZone = zone
}

// PlayZone returns the zone used for spawns.
func (s *Scheduler) PlayZone() core.Rect {
	return s.cfg.PlayZone
}

// ActiveCount returns the number of projectiles in flight.
func (s *Scheduler) ActiveCount() int {
	return len(s.active)
}

// IsTracked reports whether id is in flight.
func (s *Scheduler) IsTracked(id string) bool {
	_, ok := s.active[id]
	return ok
}

// Spawned returns how many descriptors were emitted since creation.
func (s *Scheduler) Spawned() int {
	return s.spawned
}

// NextSpawn returns when the pending spawn fires.
func (s *Scheduler) NextSpawn() (time.Time, bool) {
	if !s.armed {
		return time.Time{}, false
	}
	return s.timers.Due(s.pending)
}

func (s *Scheduler) schedule() {
	s.gen++
	gen := s.gen
	s.pending = s.timers.After(max(s.diff.SpawnInterval(), minSpawnInterval), func() {
		s.armed = false
		// A stale callback must never spawn after pause or deactivate.
		if s.state != Active || gen != s.gen {
			return
		}
		s.spawn()
		s.schedule()
	})
	s.armed = true
}

func (s *Scheduler) cancel() {
	s.gen++
	if s.armed {
		s.timers.Cancel(s.pending)
		s.armed = false
	}
}

func (s *Scheduler) spawn() Descriptor {
	dir := s.calc.RandomDirection()
	origin, terminus := s.calc.Compute(dir, s.cfg.PlayZone, s.cfg.ProjectileSize)
	velocity := s.cfg.BaseVelocity * s.diff.VelocityMultiplier()

	d := Descriptor{
		ID:        s.newID(),
		Direction: dir,
		Origin:    origin,
		Terminus:  terminus,
		Duration:  trajectory.TravelDuration(origin, terminus, velocity),
		Size:      s.cfg.ProjectileSize,
		Velocity:  velocity,
	}

	s.active[d.ID] = struct{}{}
	s.spawned++
	for _, fn := range s.onSpawn {
		fn(d)
	}
	return d
}

func (s *Scheduler) remove(id string, reason RemovalReason) bool {
	if _, ok := s.active[id]; !ok {
		return false
	}
	delete(s.active, id)
	for _, fn := range s.onRemoval {
		fn(id, reason)
	}
	return true
}
