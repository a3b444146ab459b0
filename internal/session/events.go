package session

import (
	"time"

	"github.com/vovakirdan/tui-dodge/internal/collision"
	"github.com/vovakirdan/tui-dodge/internal/scoring"
	"github.com/vovakirdan/tui-dodge/internal/spawn"
)

// Event is delivered to listeners registered with Subscribe.
type Event interface {
	isEvent()
}

// StateChangedEvent reports a lifecycle transition.
type StateChangedEvent struct {
	From, To State
}

// ProjectileSpawnedEvent carries a new descriptor. The presentation layer
// creates the entity and registers it with RegisterProjectileEntity.
type ProjectileSpawnedEvent struct {
	Descriptor spawn.Descriptor
	Elapsed    time.Duration // session time at spawn
}

// ProjectileRemovedEvent reports a projectile leaving play.
type ProjectileRemovedEvent struct {
	ID     string
	Reason spawn.RemovalReason
}

// CollisionEvent reports a projectile hitting a block.
type CollisionEvent struct {
	Record collision.Record
	Score  scoring.State
}

// DodgeEvent reports a completed projectile.
type DodgeEvent struct {
	ProjectileID string
	Points       int
	Score        scoring.State
	Level        int
	LevelUp      bool
}

// FrameEvent is emitted at the start of every frame, before collision
// detection, so listeners can refresh entity bounds.
type FrameEvent struct {
	Frame   uint64
	Elapsed time.Duration
	Delta   time.Duration // informational only
}

// DurationTickEvent is emitted once per second of executing time.
type DurationTickEvent struct {
	Seconds int
}

// ConcludedEvent carries the final result.
type ConcludedEvent struct {
	Result Result
}

func (StateChangedEvent) isEvent()      {}
func (ProjectileSpawnedEvent) isEvent() {}
func (ProjectileRemovedEvent) isEvent() {}
func (CollisionEvent) isEvent()         {}
func (DodgeEvent) isEvent()             {}
func (FrameEvent) isEvent()             {}
func (DurationTickEvent) isEvent()      {}
func (ConcludedEvent) isEvent()         {}

// Listener receives session events on the pumping goroutine.
type Listener func(Event)

type subscription struct {
	id uint64
	fn Listener
}
