package arena

import (
	"time"

	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/session"
)

// Autopilot plays headless sessions: at most once per reaction interval it
// steps every threatened tile to an adjacent free slot that no incoming
// projectile will cross.
type Autopilot struct {
	a        *Arena
	reaction time.Duration
	last     time.Duration
	moves    int
	unsub    func()
}

// NewAutopilot creates an autopilot for a. Call Attach after the arena is
// attached so frames are seen after projectiles move.
func NewAutopilot(a *Arena, reaction time.Duration) *Autopilot {
	return &Autopilot{a: a, reaction: reaction, last: -reaction}
}

// Attach subscribes to frame events.
func (p *Autopilot) Attach() {
	p.Detach()
	p.last = -p.reaction
	p.unsub = p.a.o.Subscribe(func(e session.Event) {
		if f, ok := e.(session.FrameEvent); ok {
			p.Step(f.Elapsed)
		}
	})
}

// Detach stops reacting to frames.
func (p *Autopilot) Detach() {
	if p.unsub != nil {
		p.unsub()
		p.unsub = nil
	}
}

// Moves returns how many tile moves the autopilot made.
func (p *Autopilot) Moves() int {
	return p.moves
}

// Step reacts to the current projectile positions.
func (p *Autopilot) Step(elapsed time.Duration) {
	if elapsed-p.last < p.reaction {
		return
	}
	p.last = elapsed

	a := p.a
	for _, t := range a.tiles {
		if !a.threatened(t.Bounds()) {
			continue
		}
		for _, dir := range [...][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			to := a.neighbor(t.Slot, dir[0], dir[1])
			if to < 0 || a.occupant(to) != nil {
				continue
			}
			if a.threatened(core.RectAround(a.SlotCenter(to), a.layout.TileSize, a.layout.TileSize)) {
				continue
			}
			if a.MoveTile(t, dir[0], dir[1]) {
				p.moves++
				break
			}
		}
	}
}

// threatened reports whether any projectile's remaining path sweeps r.
func (a *Arena) threatened(r core.Rect) bool {
	for _, id := range a.order {
		pr := a.projectiles[id]
		if sweep(pr.bounds, pr.Desc.BoundsAt(pr.Desc.Duration)).Intersects(r) {
			return true
		}
	}
	return false
}

// sweep returns the smallest rect covering both boxes.
func sweep(a, b core.Rect) core.Rect {
	x0 := min(a.X, b.X)
	y0 := min(a.Y, b.Y)
	x1 := max(a.Right(), b.Right())
	y1 := max(a.Bottom(), b.Bottom())
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}
