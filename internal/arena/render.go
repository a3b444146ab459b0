package arena

import (
	"math"

	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/trajectory"
)

// Viewport maps the play zone onto a block of screen cells.
type Viewport struct {
	X, Y int // top-left cell inside the border
	W, H int // size in cells
}

// FitViewport returns the largest viewport inside a screen of w x h cells
// that keeps the zone's proportions, assuming cells are twice as tall as
// wide, leaving room for a border and top rows reserved for the HUD.
func FitViewport(zone core.Rect, w, h, reserved int) Viewport {
	availW := w - 2
	availH := h - reserved - 2
	if availW < 1 || availH < 1 || zone.Empty() {
		return Viewport{X: 1, Y: reserved + 1, W: max(availW, 1), H: max(availH, 1)}
	}

	cellsW := float64(availW)
	cellsH := cellsW * zone.H / zone.W / 2
	if cellsH > float64(availH) {
		cellsH = float64(availH)
		cellsW = cellsH * 2 * zone.W / zone.H
	}

	vw := max(int(cellsW), 1)
	vh := max(int(cellsH), 1)
	return Viewport{
		X: 1 + (availW-vw)/2,
		Y: reserved + 1 + (availH-vh)/2,
		W: vw,
		H: vh,
	}
}

// toCell converts a world point to a screen cell.
func (v Viewport) toCell(zone core.Rect, p core.Point) (int, int) {
	x := v.X + int(math.Floor((p.X-zone.X)/zone.W*float64(v.W)))
	y := v.Y + int(math.Floor((p.Y-zone.Y)/zone.H*float64(v.H)))
	return x, y
}

// inside reports whether a cell lies within the viewport.
func (v Viewport) inside(x, y int) bool {
	return x >= v.X && x < v.X+v.W && y >= v.Y && y < v.Y+v.H
}

// Render draws the zone border, slot markers, tiles, projectiles and
// collision flashes into dst.
func (a *Arena) Render(dst *core.Screen, v Viewport) {
	zone := a.o.PlayZone()
	dst.DrawBox(v.X-1, v.Y-1, v.W+2, v.H+2, core.ColorBorder)

	for s := 0; s < a.Slots(); s++ {
		x, y := v.toCell(zone, a.SlotCenter(s))
		if v.inside(x, y) {
			dst.SetColored(x, y, '·', core.ColorSlot)
		}
	}

	for i, t := range a.tiles {
		b := t.Bounds()
		x0, y0 := v.toCell(zone, core.Point{X: b.X, Y: b.Y})
		x1, y1 := v.toCell(zone, core.Point{X: b.Right(), Y: b.Bottom()})
		color := core.ColorTile
		if i == a.selected {
			color = core.ColorSelected
		}
		x1, y1 = max(x1, x0+1), max(y1, y0+1)
		// Clip to the viewport so tiles never overdraw the border.
		x0, y0 = max(x0, v.X), max(y0, v.Y)
		x1, y1 = min(x1, v.X+v.W), min(y1, v.Y+v.H)
		if x1 > x0 && y1 > y0 {
			dst.DrawRect(x0, y0, x1-x0, y1-y0, '█', color)
		}
	}

	for _, id := range a.order {
		p := a.projectiles[id]
		x, y := v.toCell(zone, p.bounds.Center())
		if v.inside(x, y) {
			dst.SetColored(x, y, projectileGlyph(p.Desc.Direction), core.ColorProjectile)
		}
	}

	for _, f := range a.flashes {
		x, y := v.toCell(zone, f.at)
		if v.inside(x, y) {
			dst.SetColored(x, y, '✸', core.ColorImpact)
		}
	}
}

func projectileGlyph(d trajectory.Direction) rune {
	switch d {
	case trajectory.Top:
		return '▼'
	case trajectory.Bottom:
		return '▲'
	case trajectory.Left:
		return '▶'
	case trajectory.Right:
		return '◀'
	default:
		return '●'
	}
}
