// Package session drives one play session: it owns the difficulty model,
// spawn scheduler, collision engine and scoring engine, pumps their timers
// and frames from a single goroutine, and produces a Result at the end.
package session

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-dodge/internal/clock"
	"github.com/vovakirdan/tui-dodge/internal/collision"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/difficulty"
	"github.com/vovakirdan/tui-dodge/internal/scoring"
	"github.com/vovakirdan/tui-dodge/internal/spawn"
	"github.com/vovakirdan/tui-dodge/internal/trajectory"
)

const durationTickInterval = time.Second

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the time source. Defaults to the wall clock.
func WithClock(c clock.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithIDGenerator replaces the UUID source for session and projectile ids.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) { o.newID = fn }
}

// Orchestrator is the session state machine. It is not safe for concurrent
// use: Pump and every other method must run on the same goroutine.
type Orchestrator struct {
	clock  clock.Clock
	timers *clock.Timers
	log    *log.Logger
	newID  func() string

	state State
	id    string
	cfg   Configuration

	diff  *difficulty.Model
	sched *spawn.Scheduler
	coll  *collision.Engine
	score *scoring.Engine

	start     time.Time // shifted forward by every pause
	pausedAt  time.Time
	lastFrame time.Time
	final     time.Duration
	running   bool
	frame     uint64

	tick      clock.TimerID
	tickArmed bool
	seconds   int

	result    *Result
	listeners []subscription
	nextSub   uint64
}

// New creates a dormant orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		clock: clock.Real{},
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = log.New(io.Discard)
	}
	o.timers = clock.NewTimers(o.clock)
	return o
}

// Subscribe registers a listener and returns a function removing it.
func (o *Orchestrator) Subscribe(l Listener) (unsubscribe func()) {
	o.nextSub++
	id := o.nextSub
	o.listeners = append(o.listeners, subscription{id: id, fn: l})
	return func() {
		o.listeners = slices.DeleteFunc(o.listeners, func(s subscription) bool { return s.id == id })
	}
}

func (o *Orchestrator) emit(e Event) {
	// Listeners may unsubscribe while being notified.
	for _, s := range slices.Clone(o.listeners) {
		s.fn(e)
	}
}

func (o *Orchestrator) transition(to State) {
	from := o.state
	o.state = to
	o.log.Debug("session state", "id", o.id, "from", from, "to", to)
	o.emit(StateChangedEvent{From: from, To: to})
}

func (o *Orchestrator) ignored(op string) bool {
	o.log.Debug("ignored transition", "op", op, "state", o.state)
	return false
}

// Initialize builds fresh subsystems for a new session. Valid from Dormant
// or Concluded.
func (o *Orchestrator) Initialize(cfg Configuration) bool {
	if o.state != Dormant && o.state != Concluded {
		return o.ignored("initialize")
	}

	o.cfg = cfg
	r := cfg.resolved()

	o.timers.CancelAll()
	o.diff = difficulty.New(r.Difficulty)
	o.score = scoring.New(r.Scoring, o.timers)
	o.coll = collision.New(r.Collision, o.clock)
	o.sched = spawn.New(r.Spawn, o.timers, o.diff, spawn.WithIDGenerator(o.newID))

	o.sched.OnSpawn(o.handleSpawn)
	o.sched.OnRemoval(o.handleRemoval)
	o.coll.OnCollision(o.handleCollision)

	o.diff.Reset()
	o.score.ResetAll()

	o.id = o.newID()
	o.frame = 0
	o.seconds = 0
	o.final = 0
	o.running = false
	o.result = nil

	o.transition(Initialized)
	return true
}

// Commence starts the clock, frame loop, spawning and the 1 Hz duration
// tick. Valid from Initialized.
func (o *Orchestrator) Commence() bool {
	if o.state != Initialized {
		return o.ignored("commence")
	}

	now := o.clock.Now()
	o.start = now
	o.lastFrame = now
	o.running = true
	o.sched.Activate()
	o.armTick()

	o.transition(Executing)
	o.log.Info("session started", "id", o.id, "category", o.cfg.Category)
	return true
}

// Suspend freezes the session. Nothing fires until Resume and there is no
// catch-up afterwards. Valid from Executing.
func (o *Orchestrator) Suspend() bool {
	if o.state != Executing {
		return o.ignored("suspend")
	}

	o.pausedAt = o.clock.Now()
	o.running = false
	o.sched.Pause()
	o.disarmTick()
	o.score.SuspendDecay()

	o.transition(Suspended)
	return true
}

// Resume continues a suspended session. The start timestamp moves forward
// by the pause length so elapsed time excludes it. Valid from Suspended.
func (o *Orchestrator) Resume() bool {
	if o.state != Suspended {
		return o.ignored("resume")
	}

	now := o.clock.Now()
	o.start = o.start.Add(now.Sub(o.pausedAt))
	o.lastFrame = now
	o.running = true
	o.sched.Resume()
	o.armTick()
	o.score.ResumeDecay()

	o.transition(Executing)
	return true
}

// Conclude ends the session, tears down the subsystems and emits the
// result. Valid from Executing or Suspended.
func (o *Orchestrator) Conclude(reason Reason) bool {
	if o.state != Executing && o.state != Suspended {
		return o.ignored("conclude")
	}

	o.final = o.Elapsed()
	o.stopAll()

	sum := o.score.Summary()
	res := Result{
		SessionID:   o.id,
		Category:    o.cfg.Category,
		Reason:      reason,
		FinalScore:  sum.FinalScore,
		Duration:    o.final,
		PeakCombo:   sum.PeakCombo,
		Dodges:      sum.Dodges,
		Collisions:  sum.Collisions,
		SuccessRate: sum.SuccessRate,
		Level:       o.diff.Level(),
		Difficulty:  o.diff.Factor(),
		Frames:      o.frame,
		EndedAt:     o.clock.Now(),
	}
	o.result = &res
	o.teardown()

	o.transition(Concluded)
	o.log.Info("session concluded", "id", res.SessionID, "reason", reason,
		"score", res.FinalScore, "duration", res.Duration.Round(time.Millisecond))
	o.emit(ConcludedEvent{Result: res})
	return true
}

// ResetToDormant force-stops everything without producing a result.
// Valid from any state.
func (o *Orchestrator) ResetToDormant() {
	o.stopAll()
	o.teardown()
	o.result = nil
	o.final = 0
	if o.state != Dormant {
		o.transition(Dormant)
	}
}

func (o *Orchestrator) stopAll() {
	o.running = false
	if o.sched != nil {
		o.sched.Deactivate()
	}
	o.tickArmed = false
	o.timers.CancelAll()
}

func (o *Orchestrator) teardown() {
	if o.coll != nil {
		o.coll.Reset()
	}
	o.sched = nil
	o.coll = nil
	o.score = nil
	o.diff = nil
}

func (o *Orchestrator) armTick() {
	o.tick = o.timers.Every(durationTickInterval, o.durationTick)
	o.tickArmed = true
}

func (o *Orchestrator) disarmTick() {
	if o.tickArmed {
		o.timers.Cancel(o.tick)
		o.tickArmed = false
	}
}

func (o *Orchestrator) durationTick() {
	if o.state != Executing {
		return
	}
	o.seconds++
	o.emit(DurationTickEvent{Seconds: o.seconds})

	if o.cfg.TimeLimit > 0 && o.Elapsed() >= o.cfg.TimeLimit {
		o.Conclude(ReasonTimeUp)
	}
}

// Pump is the frame source callback: it fires due timers, then runs one
// frame while the session executes.
func (o *Orchestrator) Pump() {
	o.timers.Advance()
	if o.running && o.state == Executing {
		o.runFrame()
	}
}

func (o *Orchestrator) runFrame() {
	now := o.clock.Now()
	delta := now.Sub(o.lastFrame)
	o.lastFrame = now
	o.frame++
	elapsed := now.Sub(o.start)

	o.emit(FrameEvent{Frame: o.frame, Elapsed: elapsed, Delta: delta})
	if o.state != Executing {
		return
	}

	o.diff.Update(elapsed)
	o.coll.ProcessCollisionDetection()
}

func (o *Orchestrator) handleSpawn(d spawn.Descriptor) {
	o.emit(ProjectileSpawnedEvent{Descriptor: d, Elapsed: o.Elapsed()})
}

func (o *Orchestrator) handleRemoval(id string, reason spawn.RemovalReason) {
	o.coll.UnregisterProjectile(id)
	o.emit(ProjectileRemovedEvent{ID: id, Reason: reason})
}

func (o *Orchestrator) handleCollision(r collision.Record) {
	if o.state != Executing {
		return
	}
	// One projectile scores at most one collision even if it touched
	// several blocks in the same frame.
	if !o.sched.RegisterCollision(r.ProjectileID) && !o.coll.UnregisterProjectile(r.ProjectileID) {
		return
	}

	o.score.RegisterCollision()
	o.emit(CollisionEvent{Record: r, Score: o.score.State()})

	if o.cfg.Features.EndOnCollisionLimit && o.cfg.Lives > 0 && o.score.State().Collisions >= o.cfg.Lives {
		o.Conclude(ReasonOutOfLives)
	}
}

// CompleteProjectile records a dodge for a projectile that finished its
// trajectory. Returns false for unknown or already removed ids.
func (o *Orchestrator) CompleteProjectile(id string) bool {
	if o.state != Executing {
		return false
	}
	if !o.sched.RegisterCompletion(id) {
		return false
	}

	points := o.score.AwardDodge()
	st := o.score.State()
	o.diff.ObserveScore(st.TotalScore)
	levelUp := o.diff.AdvanceLevelForScore(st.TotalScore)

	o.emit(DodgeEvent{
		ProjectileID: id,
		Points:       points,
		Score:        st,
		Level:        o.diff.Level(),
		LevelUp:      levelUp,
	})
	return true
}

// RegisterProjectileCollision removes a projectile after a collision the
// presentation layer handled itself. Repeated calls are no-ops.
func (o *Orchestrator) RegisterProjectileCollision(id string) bool {
	if o.sched == nil {
		return false
	}
	return o.sched.RegisterCollision(id)
}

// RegisterProjectileEntity registers a spawned projectile's live bounds.
func (o *Orchestrator) RegisterProjectileEntity(id string, dir trajectory.Direction, src collision.BoundsSource) bool {
	if o.coll == nil {
		return false
	}
	return o.coll.RegisterProjectile(id, dir, src)
}

// RegisterBlock registers a block the player moves.
func (o *Orchestrator) RegisterBlock(id string, src collision.BoundsSource) bool {
	if o.coll == nil {
		return false
	}
	return o.coll.RegisterBlock(id, src)
}

// UnregisterBlock removes a block.
func (o *Orchestrator) UnregisterBlock(id string) bool {
	if o.coll == nil {
		return false
	}
	return o.coll.UnregisterBlock(id)
}

// SetBlockActive toggles a block's participation in detection.
func (o *Orchestrator) SetBlockActive(id string, active bool) bool {
	if o.coll == nil {
		return false
	}
	return o.coll.SetBlockActive(id, active)
}

// SetPlayZone changes the play zone for spawning and the spatial grid.
func (o *Orchestrator) SetPlayZone(zone core.Rect) {
	o.cfg.PlayZone = zone
	if o.sched != nil {
		o.sched.SetPlayZone(zone)
	}
	if o.coll != nil {
		o.coll.SetPlayZone(zone)
	}
}

// TriggerImmediateSpawn spawns one projectile now. Only while executing.
func (o *Orchestrator) TriggerImmediateSpawn() (spawn.Descriptor, bool) {
	if o.state != Executing {
		return spawn.Descriptor{}, false
	}
	return o.sched.TriggerImmediateSpawn()
}

// ID returns the current session id.
func (o *Orchestrator) ID() string {
	return o.id
}

// State returns the lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Configuration returns the configuration given to Initialize.
func (o *Orchestrator) Configuration() Configuration {
	return o.cfg
}

// PlayZone returns the current play zone.
func (o *Orchestrator) PlayZone() core.Rect {
	return o.cfg.PlayZone
}

// Clock returns the orchestrator's time source.
func (o *Orchestrator) Clock() clock.Clock {
	return o.clock
}

// Elapsed returns session time with pauses excluded.
func (o *Orchestrator) Elapsed() time.Duration {
	switch o.state {
	case Executing:
		return o.clock.Now().Sub(o.start)
	case Suspended:
		return o.pausedAt.Sub(o.start)
	case Concluded:
		return o.final
	default:
		return 0
	}
}

// Frame returns the number of frames run this session.
func (o *Orchestrator) Frame() uint64 {
	return o.frame
}

// Seconds returns the duration accumulator: whole seconds of executing
// time counted by the 1 Hz tick.
func (o *Orchestrator) Seconds() int {
	return o.seconds
}

// Score returns the live score, or zero outside a session.
func (o *Orchestrator) Score() scoring.State {
	if o.score == nil {
		return scoring.State{}
	}
	return o.score.State()
}

// ComboPhase returns the combo state.
func (o *Orchestrator) ComboPhase() scoring.Phase {
	if o.score == nil {
		return scoring.ComboZero
	}
	return o.score.Phase()
}

// Level returns the difficulty level, 1 outside a session.
func (o *Orchestrator) Level() int {
	if o.diff == nil {
		return 1
	}
	return o.diff.Level()
}

// Factor returns the difficulty factor.
func (o *Orchestrator) Factor() float64 {
	if o.diff == nil {
		return 0
	}
	return o.diff.Factor()
}

// LivesLeft returns remaining collisions before out-of-lives, or -1 when
// collisions do not end the session.
func (o *Orchestrator) LivesLeft() int {
	if !o.cfg.Features.EndOnCollisionLimit || o.cfg.Lives <= 0 {
		return -1
	}
	return max(o.cfg.Lives-o.Score().Collisions, 0)
}

// TimeLeft returns remaining time under a time limit.
func (o *Orchestrator) TimeLeft() (time.Duration, bool) {
	if o.cfg.TimeLimit <= 0 {
		return 0, false
	}
	return max(o.cfg.TimeLimit-o.Elapsed(), 0), true
}

// ActiveProjectiles returns the number of projectiles in flight.
func (o *Orchestrator) ActiveProjectiles() int {
	if o.sched == nil {
		return 0
	}
	return o.sched.ActiveCount()
}

// Result returns the result of the last concluded session.
func (o *Orchestrator) Result() (Result, bool) {
	if o.result == nil {
		return Result{}, false
	}
	return *o.result, true
}
