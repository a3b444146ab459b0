// Package collision detects overlaps between in-flight projectiles and the
// blocks the player moves around. Detection runs once per frame against
// bounds sampled from the presentation layer.
package collision

import (
	"slices"
	"time"

	"github.com/vovakirdan/tui-dodge/internal/clock"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/trajectory"
)

// BoundsSource supplies the live bounding box of an entity.
type BoundsSource interface {
	Bounds() core.Rect
}

// FixedBounds is a BoundsSource holding a snapshot that callers update.
type FixedBounds struct {
	R core.Rect
}

// Bounds returns the stored rectangle.
func (f *FixedBounds) Bounds() core.Rect {
	return f.R
}

// BoundsFunc adapts a function to BoundsSource.
type BoundsFunc func() core.Rect

// Bounds calls f.
func (f BoundsFunc) Bounds() core.Rect {
	return f()
}

// Config holds collision tuning.
type Config struct {
	Padding               float64 // shrinks both boxes before the overlap test
	MaxCollisionsPerFrame int     // 0 means unlimited
	GridCellSize          float64 // 0 disables the spatial grid
	PlayZone              core.Rect
}

// DefaultConfig returns padding 5 and a cap of 3 collisions per frame.
func DefaultConfig() Config {
	return Config{
		Padding:               5,
		MaxCollisionsPerFrame: 3,
	}
}

// Record describes one detected projectile/block collision.
type Record struct {
	ProjectileID     string
	BlockID          string
	Direction        trajectory.Direction
	At               time.Time
	Frame            uint64
	ProjectileBounds core.Rect
	BlockBounds      core.Rect
	Point            core.Point
	Impact           core.Vector
}

type entity struct {
	id        string
	active    bool
	source    BoundsSource
	direction trajectory.Direction
}

type blockSnapshot struct {
	ent    *entity
	raw    core.Rect
	padded core.Rect
}

// Engine owns the block and projectile registries for one session.
// It is not safe for concurrent use.
type Engine struct {
	cfg   Config
	clock clock.Clock

	// Registration order is the order slices; maps index them by id.
	blocks      []*entity
	projectiles []*entity
	blockByID   map[string]*entity
	projByID    map[string]*entity

	processed *processedSet
	grid      *Grid
	frame     uint64
	detected  int

	listeners []func(Record)

	snaps      []blockSnapshot
	candidates []int
}

// New creates an empty engine. c stamps collision records.
func New(cfg Config, c clock.Clock) *Engine {
	e := &Engine{
		cfg:       cfg,
		clock:     c,
		blockByID: make(map[string]*entity),
		projByID:  make(map[string]*entity),
		processed: newProcessedSet(),
	}
	e.rebuildGrid()
	return e
}

func (e *Engine) rebuildGrid() {
	e.grid = nil
	if e.cfg.GridCellSize > 0 && !e.cfg.PlayZone.Empty() {
		e.grid = NewGrid(e.cfg.PlayZone, e.cfg.GridCellSize)
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetPlayZone resizes the spatial grid, if enabled.
func (e *Engine) SetPlayZone(zone core.Rect) {
	e.cfg.PlayZone = zone
	e.rebuildGrid()
}

// OnCollision adds a listener called once per newly detected pair, after
// the frame's scan completes. Listeners may unregister entities.
func (e *Engine) OnCollision(fn func(Record)) {
	e.listeners = append(e.listeners, fn)
}

// RegisterBlock adds an active block. A duplicate id is a no-op returning false.
func (e *Engine) RegisterBlock(id string, src BoundsSource) bool {
	if _, ok := e.blockByID[id]; ok {
		return false
	}
	ent := &entity{id: id, active: true, source: src}
	e.blocks = append(e.blocks, ent)
	e.blockByID[id] = ent
	return true
}

// RegisterProjectile adds an active projectile. A duplicate id is a no-op
// returning false.
func (e *Engine) RegisterProjectile(id string, dir trajectory.Direction, src BoundsSource) bool {
	if _, ok := e.projByID[id]; ok {
		return false
	}
	ent := &entity{id: id, active: true, source: src, direction: dir}
	e.projectiles = append(e.projectiles, ent)
	e.projByID[id] = ent
	return true
}

// UnregisterBlock removes a block and forgets every pair it was part of.
func (e *Engine) UnregisterBlock(id string) bool {
	ent, ok := e.blockByID[id]
	if !ok {
		return false
	}
	delete(e.blockByID, id)
	e.blocks = removeEntity(e.blocks, ent)
	e.processed.purgeBlock(id)
	return true
}

// UnregisterProjectile removes a projectile and forgets every pair it was
// part of.
func (e *Engine) UnregisterProjectile(id string) bool {
	ent, ok := e.projByID[id]
	if !ok {
		return false
	}
	delete(e.projByID, id)
	e.projectiles = removeEntity(e.projectiles, ent)
	e.processed.purgeProjectile(id)
	return true
}

func removeEntity(list []*entity, ent *entity) []*entity {
	if i := slices.Index(list, ent); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

// SetBlockActive toggles whether a block takes part in detection.
func (e *Engine) SetBlockActive(id string, active bool) bool {
	ent, ok := e.blockByID[id]
	if ok {
		ent.active = active
	}
	return ok
}

// SetProjectileActive toggles whether a projectile takes part in detection.
func (e *Engine) SetProjectileActive(id string, active bool) bool {
	ent, ok := e.projByID[id]
	if ok {
		ent.active = active
	}
	return ok
}

// UpdateBounds replaces the bounds of a registered block or projectile
// with a fixed snapshot.
func (e *Engine) UpdateBounds(id string, r core.Rect) bool {
	ent, ok := e.projByID[id]
	if !ok {
		ent, ok = e.blockByID[id]
	}
	if !ok {
		return false
	}
	if fb, isFixed := ent.source.(*FixedBounds); isFixed {
		fb.R = r
	} else {
		ent.source = &FixedBounds{R: r}
	}
	return true
}

// HasBlock reports whether a block id is registered.
func (e *Engine) HasBlock(id string) bool {
	_, ok := e.blockByID[id]
	return ok
}

// HasProjectile reports whether a projectile id is registered.
func (e *Engine) HasProjectile(id string) bool {
	_, ok := e.projByID[id]
	return ok
}

// BlockCount returns the number of registered blocks.
func (e *Engine) BlockCount() int {
	return len(e.blocks)
}

// ProjectileCount returns the number of registered projectiles.
func (e *Engine) ProjectileCount() int {
	return len(e.projectiles)
}

// ProcessedCount returns the number of pairs already reported.
func (e *Engine) ProcessedCount() int {
	return e.processed.len()
}

// Detected returns the total number of collisions reported since Reset.
func (e *Engine) Detected() int {
	return e.detected
}

// Reset drops every registered entity and processed pair. Listeners stay.
func (e *Engine) Reset() {
	e.blocks = nil
	e.projectiles = nil
	clear(e.blockByID)
	clear(e.projByID)
	e.processed.reset()
	e.frame = 0
	e.detected = 0
}

// ProcessCollisionDetection runs one frame of detection. Every active
// projectile is tested against every active block in registration order;
// pairs already reported are skipped. Once MaxCollisionsPerFrame records
// are collected the scan stops, leaving the rest unprocessed for a later
// frame. Listeners are notified after the scan.
func (e *Engine) ProcessCollisionDetection() []Record {
	e.frame++
	pad := e.cfg.Padding

	e.snaps = e.snaps[:0]
	for _, b := range e.blocks {
		if !b.active {
			continue
		}
		raw := b.source.Bounds()
		e.snaps = append(e.snaps, blockSnapshot{ent: b, raw: raw, padded: raw.Inset(pad)})
	}
	if len(e.snaps) == 0 || len(e.projectiles) == 0 {
		return nil
	}

	if e.grid != nil {
		e.grid.Clear()
		for i := range e.snaps {
			e.grid.Insert(e.snaps[i].padded, i)
		}
	}

	limit := e.cfg.MaxCollisionsPerFrame
	now := e.clock.Now()
	var out []Record

scan:
	for _, p := range e.projectiles {
		if !p.active {
			continue
		}
		raw := p.source.Bounds()
		padded := raw.Inset(pad)

		for _, i := range e.candidatesFor(padded) {
			b := e.snaps[i]
			key := pairKey{projectile: p.id, block: b.ent.id}
			if e.processed.has(key) || !padded.Intersects(b.padded) {
				continue
			}

			e.processed.add(key)
			out = append(out, Record{
				ProjectileID:     p.id,
				BlockID:          b.ent.id,
				Direction:        p.direction,
				At:               now,
				Frame:            e.frame,
				ProjectileBounds: raw,
				BlockBounds:      b.raw,
				Point:            PreciseCollisionPoint(raw, b.raw),
				Impact:           ImpactDirection(raw, b.raw),
			})
			if limit > 0 && len(out) >= limit {
				break scan
			}
		}
	}

	e.detected += len(out)
	for _, r := range out {
		for _, fn := range e.listeners {
			fn(r)
		}
	}
	return out
}

// candidatesFor returns snapshot indices to test against r, in
// registration order.
func (e *Engine) candidatesFor(r core.Rect) []int {
	e.candidates = e.candidates[:0]
	if e.grid == nil {
		for i := range e.snaps {
			e.candidates = append(e.candidates, i)
		}
		return e.candidates
	}
	e.candidates = e.grid.Query(r, e.candidates)
	slices.Sort(e.candidates)
	return e.candidates
}
