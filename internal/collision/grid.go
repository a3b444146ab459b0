package collision

import (
	"math"

	"github.com/vovakirdan/tui-dodge/internal/core"
)

// Grid is a uniform grid over the play zone for broad-phase lookups.
// Items are inserted by bounding box into every cell the box touches.
// Coordinates outside the zone clamp to the border cells, so two
// overlapping boxes always share at least one cell.
type Grid struct {
	origin      core.Point
	invCellSize float64
	cols        int
	rows        int
	cells       []gridCell

	// stamp dedupes items that span several cells during one query.
	stamp []uint32
	epoch uint32
}

// gridCell stores the indices of items that touch a cell.
// The slice is reused between frames (reset to [:0]).
type gridCell struct {
	items []int
}

// NewGrid creates a grid covering zone with square cells of cellSize.
func NewGrid(zone core.Rect, cellSize float64) *Grid {
	cols := int(math.Ceil(zone.W / cellSize))
	rows := int(math.Ceil(zone.H / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &Grid{
		origin:      core.Point{X: zone.X, Y: zone.Y},
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

// Clear removes all items without freeing cell memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds item index to every cell r touches.
func (g *Grid) Insert(r core.Rect, index int) {
	c0, r0, c1, r1 := g.span(r)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cell := &g.cells[row*g.cols+col]
			cell.items = append(cell.items, index)
		}
	}
	if index >= len(g.stamp) {
		g.stamp = append(g.stamp, make([]uint32, index+1-len(g.stamp))...)
	}
}

// Query appends to dst each distinct item whose cells overlap r and
// returns the extended slice. Order follows cell traversal; callers that
// need a stable order sort the result.
func (g *Grid) Query(r core.Rect, dst []int) []int {
	g.epoch++
	if g.epoch == 0 {
		clear(g.stamp)
		g.epoch = 1
	}

	c0, r0, c1, r1 := g.span(r)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, idx := range g.cells[row*g.cols+col].items {
				if g.stamp[idx] == g.epoch {
					continue
				}
				g.stamp[idx] = g.epoch
				dst = append(dst, idx)
			}
		}
	}
	return dst
}

func (g *Grid) span(r core.Rect) (c0, r0, c1, r1 int) {
	c0, r0 = g.posToCell(r.X, r.Y)
	c1, r1 = g.posToCell(r.Right(), r.Bottom())
	return c0, r0, c1, r1
}

// posToCell converts world coordinates to grid cell coordinates,
// clamping to the valid range.
func (g *Grid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor((x - g.origin.X) * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor((y - g.origin.Y) * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
