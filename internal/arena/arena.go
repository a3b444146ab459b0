// Package arena is the entity layer between a session and the screen: it
// owns the tiles the player moves and the projectiles in flight, feeds
// their bounds to collision detection each frame, reports completed
// trajectories as dodges, and renders everything into a core.Screen.
package arena

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/session"
	"github.com/vovakirdan/tui-dodge/internal/spawn"
)

// Layout places tiles on a lattice of slots inside the play zone.
type Layout struct {
	Columns  int
	Rows     int
	Tiles    int
	TileSize float64
}

// DefaultLayout is three tiles on a 3x3 lattice.
func DefaultLayout() Layout {
	return Layout{Columns: 3, Rows: 3, Tiles: 3, TileSize: 50}
}

// LayoutFromConfig reads the lattice out of the play zone config.
func LayoutFromConfig(pz config.PlayZoneConfig) Layout {
	return Layout{
		Columns:  pz.Columns,
		Rows:     pz.Rows,
		Tiles:    pz.Tiles,
		TileSize: pz.TileSize,
	}
}

// Tile is a block the player moves between slots.
type Tile struct {
	ID   string
	Slot int
	a    *Arena
}

// Bounds returns the tile's box around its slot center.
func (t *Tile) Bounds() core.Rect {
	return core.RectAround(t.a.SlotCenter(t.Slot), t.a.layout.TileSize, t.a.layout.TileSize)
}

// Projectile is a spawned projectile moving along its descriptor.
type Projectile struct {
	Desc      spawn.Descriptor
	SpawnedAt time.Duration // session time
	bounds    core.Rect
}

// Bounds returns the box sampled at the last frame.
func (p *Projectile) Bounds() core.Rect {
	return p.bounds
}

type flash struct {
	at      core.Point
	expires time.Duration
}

const flashLength = 300 * time.Millisecond

// Arena tracks entities for one orchestrator. Like the orchestrator it
// runs on the pumping goroutine.
type Arena struct {
	o      *session.Orchestrator
	layout Layout

	tiles    []*Tile
	selected int

	projectiles map[string]*Projectile
	order       []string

	flashes []flash
	elapsed time.Duration
	unsub   func()
}

// New creates an arena for o. Call Attach after o.Initialize.
func New(o *session.Orchestrator, layout Layout) *Arena {
	if layout.Columns < 1 {
		layout.Columns = 1
	}
	if layout.Rows < 1 {
		layout.Rows = 1
	}
	if layout.Tiles > layout.Columns*layout.Rows {
		layout.Tiles = layout.Columns * layout.Rows
	}
	return &Arena{
		o:           o,
		layout:      layout,
		projectiles: make(map[string]*Projectile),
	}
}

// Attach places the tiles, registers them as blocks and subscribes to
// session events. Calling it again re-attaches for a new session.
func (a *Arena) Attach() {
	a.Detach()
	a.reset()

	first := (a.layout.Rows / 2) * a.layout.Columns
	for i := 0; i < a.layout.Tiles; i++ {
		t := &Tile{
			ID:   fmt.Sprintf("tile-%d", i+1),
			Slot: (first + i) % a.Slots(),
			a:    a,
		}
		a.tiles = append(a.tiles, t)
		a.o.RegisterBlock(t.ID, t)
	}
	a.unsub = a.o.Subscribe(a.handle)
}

// Detach stops listening to the session.
func (a *Arena) Detach() {
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
}

func (a *Arena) reset() {
	a.tiles = nil
	a.selected = 0
	clear(a.projectiles)
	a.order = nil
	a.flashes = nil
	a.elapsed = 0
}

func (a *Arena) handle(e session.Event) {
	switch ev := e.(type) {
	case session.ProjectileSpawnedEvent:
		p := &Projectile{Desc: ev.Descriptor, SpawnedAt: ev.Elapsed}
		p.bounds = p.Desc.BoundsAt(0)
		a.projectiles[p.Desc.ID] = p
		a.order = append(a.order, p.Desc.ID)
		a.o.RegisterProjectileEntity(p.Desc.ID, p.Desc.Direction, p)

	case session.FrameEvent:
		a.advance(ev.Elapsed)

	case session.ProjectileRemovedEvent:
		a.forget(ev.ID)

	case session.CollisionEvent:
		a.flashes = append(a.flashes, flash{at: ev.Record.Point, expires: a.elapsed + flashLength})

	case session.StateChangedEvent:
		if ev.To == session.Dormant || ev.To == session.Concluded {
			clear(a.projectiles)
			a.order = nil
		}
	}
}

// advance samples every projectile at session time elapsed and completes
// those that reached their terminus.
func (a *Arena) advance(elapsed time.Duration) {
	a.elapsed = elapsed

	var done []string
	for _, id := range a.order {
		p := a.projectiles[id]
		flown := elapsed - p.SpawnedAt
		p.bounds = p.Desc.BoundsAt(flown)
		if flown >= p.Desc.Duration {
			done = append(done, id)
		}
	}
	for _, id := range done {
		if !a.o.CompleteProjectile(id) {
			// Already removed by the session; drop our copy.
			a.forget(id)
		}
	}

	live := a.flashes[:0]
	for _, f := range a.flashes {
		if f.expires > elapsed {
			live = append(live, f)
		}
	}
	a.flashes = live
}

func (a *Arena) forget(id string) {
	if _, ok := a.projectiles[id]; !ok {
		return
	}
	delete(a.projectiles, id)
	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Slots returns the number of lattice slots.
func (a *Arena) Slots() int {
	return a.layout.Columns * a.layout.Rows
}

// SlotCenter returns the center of a slot in world units.
func (a *Arena) SlotCenter(slot int) core.Point {
	zone := a.o.PlayZone()
	col := slot % a.layout.Columns
	row := slot / a.layout.Columns
	cw := zone.W / float64(a.layout.Columns)
	ch := zone.H / float64(a.layout.Rows)
	return core.Point{
		X: zone.X + (float64(col)+0.5)*cw,
		Y: zone.Y + (float64(row)+0.5)*ch,
	}
}

// Tiles returns the tiles in creation order.
func (a *Arena) Tiles() []*Tile {
	return a.tiles
}

// Selected returns the tile under player control, or nil.
func (a *Arena) Selected() *Tile {
	if len(a.tiles) == 0 {
		return nil
	}
	return a.tiles[a.selected]
}

// SelectNext cycles the controlled tile.
func (a *Arena) SelectNext() {
	if len(a.tiles) > 0 {
		a.selected = (a.selected + 1) % len(a.tiles)
	}
}

// Projectiles returns projectiles in flight in spawn order.
func (a *Arena) Projectiles() []*Projectile {
	out := make([]*Projectile, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.projectiles[id])
	}
	return out
}

func (a *Arena) occupant(slot int) *Tile {
	for _, t := range a.tiles {
		if t.Slot == slot {
			return t
		}
	}
	return nil
}

// neighbor returns the slot one step away, or -1 off the lattice.
func (a *Arena) neighbor(slot, dx, dy int) int {
	col := slot%a.layout.Columns + dx
	row := slot/a.layout.Columns + dy
	if col < 0 || col >= a.layout.Columns || row < 0 || row >= a.layout.Rows {
		return -1
	}
	return row*a.layout.Columns + col
}

// MoveTile moves t one slot in direction (dx, dy). It fails at the lattice
// edge or when the target slot is taken, or while the session is not
// executing.
func (a *Arena) MoveTile(t *Tile, dx, dy int) bool {
	if t == nil || a.o.State() != session.Executing {
		return false
	}
	to := a.neighbor(t.Slot, dx, dy)
	if to < 0 || a.occupant(to) != nil {
		return false
	}
	t.Slot = to
	return true
}

// Apply maps player actions onto the selected tile.
func (a *Arena) Apply(in core.InputFrame) {
	for _, act := range in.Actions {
		switch act {
		case core.ActionUp:
			a.MoveTile(a.Selected(), 0, -1)
		case core.ActionDown:
			a.MoveTile(a.Selected(), 0, 1)
		case core.ActionLeft:
			a.MoveTile(a.Selected(), -1, 0)
		case core.ActionRight:
			a.MoveTile(a.Selected(), 1, 0)
		case core.ActionNextTile:
			a.SelectNext()
		}
	}
}
