package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/vovakirdan/tui-dodge/internal/clock"
	"github.com/vovakirdan/tui-dodge/internal/collision"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/spawn"
	"github.com/vovakirdan/tui-dodge/internal/trajectory"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	clk    *clock.Manual
	o      *Orchestrator
	events []Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{clk: clock.NewManual(epoch)}
	n := 0
	h.o = New(WithClock(h.clk), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	h.o.Subscribe(func(e Event) { h.events = append(h.events, e) })
	return h
}

func (h *harness) start(t *testing.T, cfg Configuration) {
	t.Helper()
	if !h.o.Initialize(cfg) {
		t.Fatal("Initialize failed")
	}
	if !h.o.Commence() {
		t.Fatal("Commence failed")
	}
}

func (h *harness) step(d time.Duration) {
	h.clk.Advance(d)
	h.o.Pump()
}

func count[T Event](events []Event) int {
	n := 0
	for _, e := range events {
		if _, ok := e.(T); ok {
			n++
		}
	}
	return n
}

func TestInvalidTransitionsAreNoOps(t *testing.T) {
	h := newHarness(t)
	o := h.o

	if o.Commence() || o.Suspend() || o.Resume() || o.Conclude(ReasonPlayerQuit) {
		t.Fatal("transitions from dormant other than Initialize must fail")
	}
	if !o.Initialize(DefaultConfiguration()) {
		t.Fatal("Initialize from dormant should succeed")
	}
	if o.Initialize(DefaultConfiguration()) {
		t.Error("Initialize twice should fail")
	}
	if o.Suspend() || o.Resume() || o.Conclude(ReasonPlayerQuit) {
		t.Error("suspend/resume/conclude from initialized must fail")
	}
	o.Commence()
	if o.Commence() || o.Resume() || o.Initialize(DefaultConfiguration()) {
		t.Error("commence/resume/initialize while executing must fail")
	}
	o.Suspend()
	if o.Suspend() || o.Commence() {
		t.Error("suspend/commence while suspended must fail")
	}
	if o.State() != Suspended {
		t.Errorf("state = %s, expected suspended", o.State())
	}
}

func TestStateChangeEvents(t *testing.T) {
	h := newHarness(t)
	h.start(t, DefaultConfiguration())
	h.o.Suspend()
	h.o.Resume()
	h.o.Conclude(ReasonPlayerQuit)

	var got []State
	for _, e := range h.events {
		if sc, ok := e.(StateChangedEvent); ok {
			got = append(got, sc.To)
		}
	}
	want := []State{Initialized, Executing, Suspended, Executing, Concluded}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("transitions = %v, expected %v", got, want)
	}
}

func TestPauseExcludedFromElapsed(t *testing.T) {
	h := newHarness(t)
	h.start(t, DefaultConfiguration())

	h.step(3 * time.Second)
	before := h.o.Elapsed()
	if before != 3*time.Second {
		t.Fatalf("elapsed = %v, expected 3s", before)
	}

	h.o.Suspend()
	h.clk.Advance(5 * time.Second)
	if h.o.Elapsed() != before {
		t.Errorf("elapsed moved while suspended: %v", h.o.Elapsed())
	}
	h.o.Resume()
	if h.o.Elapsed() != before {
		t.Errorf("elapsed after resume = %v, expected %v", h.o.Elapsed(), before)
	}

	h.step(time.Second)
	if h.o.Elapsed() != 4*time.Second {
		t.Errorf("elapsed = %v, expected 4s", h.o.Elapsed())
	}
}

func TestSuspendStopsFramesAndSpawns(t *testing.T) {
	h := newHarness(t)
	h.start(t, DefaultConfiguration())
	h.step(time.Second)
	frames := h.o.Frame()

	h.o.Suspend()
	for i := 0; i < 20; i++ {
		h.step(time.Second)
	}
	if h.o.Frame() != frames {
		t.Errorf("frames advanced while suspended: %d -> %d", frames, h.o.Frame())
	}
	if n := count[ProjectileSpawnedEvent](h.events); n != 0 {
		t.Errorf("spawned %d while suspended", n)
	}
	if h.o.Seconds() != 1 {
		t.Errorf("duration accumulator = %d, expected 1", h.o.Seconds())
	}

	h.o.Resume()
	h.step(3 * time.Second)
	if n := count[ProjectileSpawnedEvent](h.events); n != 1 {
		t.Errorf("expected a spawn 3s after resume, got %d", n)
	}
}

func TestFrameEventPrecedesCollision(t *testing.T) {
	h := newHarness(t)
	h.start(t, DefaultConfiguration())

	d, ok := h.o.TriggerImmediateSpawn()
	if !ok {
		t.Fatal("TriggerImmediateSpawn failed")
	}
	h.o.RegisterBlock("block", &collision.FixedBounds{R: core.NewRect(0, 0, 100, 100)})

	bounds := &collision.FixedBounds{R: core.NewRect(400, 400, 20, 20)}
	h.o.RegisterProjectileEntity(d.ID, d.Direction, bounds)

	// The frame listener moves the projectile into the block before detection.
	h.o.Subscribe(func(e Event) {
		if _, ok := e.(FrameEvent); ok {
			bounds.R = core.NewRect(40, 40, 20, 20)
		}
	})

	h.events = nil
	h.step(16 * time.Millisecond)

	if len(h.events) < 2 {
		t.Fatalf("events = %v", h.events)
	}
	if _, ok := h.events[0].(FrameEvent); !ok {
		t.Errorf("first event = %T, expected FrameEvent", h.events[0])
	}
	if count[CollisionEvent](h.events) != 1 {
		t.Errorf("expected one collision, events = %v", h.events)
	}
	if h.o.Score().Collisions != 1 {
		t.Errorf("collisions = %d", h.o.Score().Collisions)
	}
	if h.o.ActiveProjectiles() != 0 {
		t.Error("colliding projectile should be removed")
	}
}

func TestCompleteProjectileAwardsDodge(t *testing.T) {
	h := newHarness(t)
	h.start(t, DefaultConfiguration())

	d, _ := h.o.TriggerImmediateSpawn()
	if !h.o.CompleteProjectile(d.ID) {
		t.Fatal("CompleteProjectile should succeed for a tracked id")
	}
	if h.o.CompleteProjectile(d.ID) {
		t.Error("second completion must be a no-op")
	}
	if s := h.o.Score(); s.TotalScore != 1 || s.Dodges != 1 || s.Combo != 1 {
		t.Errorf("score = %+v", s)
	}

	var removed []ProjectileRemovedEvent
	for _, e := range h.events {
		if r, ok := e.(ProjectileRemovedEvent); ok {
			removed = append(removed, r)
		}
	}
	if len(removed) != 1 || removed[0].Reason != spawn.Completed {
		t.Errorf("removal events = %+v", removed)
	}

	for i := 0; i < 9; i++ {
		d, _ := h.o.TriggerImmediateSpawn()
		h.o.CompleteProjectile(d.ID)
	}
	if h.o.Level() != 2 {
		t.Errorf("level = %d after score %d, expected 2", h.o.Level(), h.o.Score().TotalScore)
	}
}

func TestRegisterProjectileCollisionRemovesOnce(t *testing.T) {
	h := newHarness(t)
	h.start(t, DefaultConfiguration())

	d, ok := h.o.TriggerImmediateSpawn()
	if !ok {
		t.Fatal("TriggerImmediateSpawn failed while executing")
	}
	if !h.o.RegisterProjectileCollision(d.ID) {
		t.Fatal("first RegisterProjectileCollision should remove the id")
	}
	if h.o.RegisterProjectileCollision(d.ID) {
		t.Error("second RegisterProjectileCollision must be a no-op")
	}
	if h.o.CompleteProjectile(d.ID) {
		t.Error("completion after collision must be a no-op")
	}

	if n := count[ProjectileRemovedEvent](h.events); n != 1 {
		t.Fatalf("removal events = %d, expected 1", n)
	}
	for _, e := range h.events {
		if r, ok := e.(ProjectileRemovedEvent); ok && (r.ID != d.ID || r.Reason != spawn.Collided) {
			t.Errorf("removal event = %+v, expected %s collided", r, d.ID)
		}
	}
	if s := h.o.Score(); s.Dodges != 0 {
		t.Errorf("dodges = %d, a collided projectile must not count as dodged", s.Dodges)
	}
}

func TestOutOfLives(t *testing.T) {
	h := newHarness(t)
	cfg := DefaultConfiguration()
	cfg.Lives = 2
	h.start(t, cfg)
	h.o.RegisterBlock("block", &collision.FixedBounds{R: cfg.PlayZone})

	hit := func() {
		d, ok := h.o.TriggerImmediateSpawn()
		if !ok {
			t.Fatal("spawn failed")
		}
		h.o.RegisterProjectileEntity(d.ID, d.Direction, &collision.FixedBounds{R: core.NewRect(100, 100, 20, 20)})
		h.step(16 * time.Millisecond)
	}

	hit()
	if h.o.State() != Executing || h.o.LivesLeft() != 1 {
		t.Fatalf("after first hit: state=%s lives=%d", h.o.State(), h.o.LivesLeft())
	}
	hit()
	if h.o.State() != Concluded {
		t.Fatalf("state = %s, expected concluded", h.o.State())
	}
	res, ok := h.o.Result()
	if !ok || res.Reason != ReasonOutOfLives || res.Collisions != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestCollisionsUnlimitedWithoutFlag(t *testing.T) {
	h := newHarness(t)
	cfg := DefaultConfiguration()
	cfg.Features.EndOnCollisionLimit = false
	h.start(t, cfg)
	h.o.RegisterBlock("block", &collision.FixedBounds{R: cfg.PlayZone})

	for i := 0; i < 5; i++ {
		d, _ := h.o.TriggerImmediateSpawn()
		h.o.RegisterProjectileEntity(d.ID, d.Direction, &collision.FixedBounds{R: core.NewRect(100, 100, 20, 20)})
		h.step(16 * time.Millisecond)
	}
	if h.o.State() != Executing || h.o.Score().Collisions != 5 {
		t.Errorf("state=%s collisions=%d", h.o.State(), h.o.Score().Collisions)
	}
	if h.o.LivesLeft() != -1 {
		t.Errorf("LivesLeft = %d, expected -1", h.o.LivesLeft())
	}
}

func TestTimeLimit(t *testing.T) {
	h := newHarness(t)
	cfg := DefaultConfiguration()
	cfg.TimeLimit = 5 * time.Second
	h.start(t, cfg)

	for i := 0; i < 4; i++ {
		h.step(time.Second)
	}
	if h.o.State() != Executing {
		t.Fatalf("concluded early at %v", h.o.Elapsed())
	}
	if left, ok := h.o.TimeLeft(); !ok || left != time.Second {
		t.Errorf("TimeLeft = %v, %v", left, ok)
	}
	h.step(time.Second)

	res, ok := h.o.Result()
	if !ok || res.Reason != ReasonTimeUp {
		t.Fatalf("result = %+v, %v", res, ok)
	}
	if res.Duration != 5*time.Second {
		t.Errorf("duration = %v, expected 5s", res.Duration)
	}
	if count[DurationTickEvent](h.events) != 5 {
		t.Errorf("duration ticks = %d", count[DurationTickEvent](h.events))
	}
}

func TestConcludeBuildsResult(t *testing.T) {
	h := newHarness(t)
	h.start(t, DefaultConfiguration())

	for i := 0; i < 3; i++ {
		d, _ := h.o.TriggerImmediateSpawn()
		h.o.CompleteProjectile(d.ID)
	}
	h.step(2 * time.Second)
	h.o.Suspend()
	h.clk.Advance(time.Minute)

	if !h.o.Conclude(ReasonPlayerQuit) {
		t.Fatal("Conclude from suspended should succeed")
	}

	var got *Result
	for _, e := range h.events {
		if c, ok := e.(ConcludedEvent); ok {
			got = &c.Result
		}
	}
	if got == nil {
		t.Fatal("no ConcludedEvent")
	}
	if got.SessionID != h.o.ID() || got.Category != "classic" {
		t.Errorf("identity = %q %q", got.SessionID, got.Category)
	}
	if got.FinalScore != 3 || got.Dodges != 3 || got.PeakCombo != 3 || got.SuccessRate != 1 {
		t.Errorf("result = %+v", got)
	}
	if got.Duration != 2*time.Second {
		t.Errorf("duration = %v, expected 2s (pause excluded)", got.Duration)
	}
	if got.Level != 1 {
		t.Errorf("level = %d", got.Level)
	}

	// Subsystems are gone; entry points are inert.
	if h.o.Score().TotalScore != 0 {
		t.Error("score should be reset after teardown")
	}
	if h.o.RegisterBlock("b", &collision.FixedBounds{}) {
		t.Error("RegisterBlock after conclude should fail")
	}
	if h.o.Elapsed() != 2*time.Second {
		t.Errorf("elapsed after conclude = %v", h.o.Elapsed())
	}

	if !h.o.Initialize(DefaultConfiguration()) {
		t.Error("Initialize from concluded should succeed")
	}
	if h.o.Score().TotalScore != 0 {
		t.Error("new session should start at zero")
	}
}

func TestResetToDormant(t *testing.T) {
	h := newHarness(t)
	h.start(t, DefaultConfiguration())
	h.step(time.Second)

	h.o.ResetToDormant()
	if h.o.State() != Dormant {
		t.Fatalf("state = %s", h.o.State())
	}
	if _, ok := h.o.Result(); ok {
		t.Error("reset must not produce a result")
	}
	if count[ConcludedEvent](h.events) != 0 {
		t.Error("reset must not emit ConcludedEvent")
	}

	h.events = nil
	h.step(10 * time.Second)
	if len(h.events) != 0 {
		t.Errorf("events after reset: %v", h.events)
	}
}

func TestUnsubscribe(t *testing.T) {
	h := newHarness(t)
	calls := 0
	unsub := h.o.Subscribe(func(Event) { calls++ })

	h.o.Initialize(DefaultConfiguration())
	unsub()
	h.o.Commence()
	if calls != 1 {
		t.Errorf("listener called %d times, expected 1", calls)
	}
}

func TestSetPlayZoneAffectsSpawns(t *testing.T) {
	h := newHarness(t)
	h.start(t, DefaultConfiguration())

	zone := core.NewRect(1000, 1000, 200, 100)
	h.o.SetPlayZone(zone)
	d, _ := h.o.TriggerImmediateSpawn()

	switch d.Direction {
	case trajectory.Top, trajectory.Bottom:
		if d.Origin.X < zone.X || d.Origin.X > zone.Right() {
			t.Errorf("origin %v outside new zone span", d.Origin)
		}
	default:
		if d.Origin.Y < zone.Y || d.Origin.Y > zone.Bottom() {
			t.Errorf("origin %v outside new zone span", d.Origin)
		}
	}
}

func TestRunVirtualStopsAtTimeLimit(t *testing.T) {
	clk := clock.NewManual(epoch)
	o := New(WithClock(clk))
	cfg := DefaultConfiguration()
	cfg.TimeLimit = 10 * time.Second
	o.Initialize(cfg)
	o.Commence()

	if err := RunVirtual(context.Background(), o, clk, 16*time.Millisecond, 0); err != nil {
		t.Fatal(err)
	}
	res, ok := o.Result()
	if !ok || res.Reason != ReasonTimeUp {
		t.Fatalf("result = %+v, %v", res, ok)
	}
	if res.Frames == 0 {
		t.Error("no frames ran")
	}
}

func TestRunVirtualHonoursContext(t *testing.T) {
	clk := clock.NewManual(epoch)
	o := New(WithClock(clk))
	o.Initialize(DefaultConfiguration())
	o.Commence()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := RunVirtual(ctx, o, clk, time.Millisecond, 0); err != context.Canceled {
		t.Errorf("err = %v, expected context.Canceled", err)
	}
}

func TestParseReason(t *testing.T) {
	for _, r := range []Reason{ReasonPlayerQuit, ReasonOutOfLives, ReasonTimeUp} {
		got, ok := ParseReason(r.String())
		if !ok || got != r {
			t.Errorf("ParseReason(%q) = %v, %v", r.String(), got, ok)
		}
	}
	if _, ok := ParseReason("bogus"); ok {
		t.Error("unknown reason should not parse")
	}
}
