// Package trajectory computes where projectiles enter and leave the play
// zone and how long the crossing takes.
package trajectory

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-dodge/internal/core"
)

// Direction is the edge a projectile spawns from.
type Direction int

const (
	Top Direction = iota
	Bottom
	Left
	Right
)

// All lists every direction in declaration order.
var All = [...]Direction{Top, Bottom, Left, Right}

// String returns the lowercase edge name.
func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Heading returns the unit vector of travel for a projectile spawned
// from this edge.
func (d Direction) Heading() core.Vector {
	switch d {
	case Top:
		return core.Vector{DY: 1}
	case Bottom:
		return core.Vector{DY: -1}
	case Left:
		return core.Vector{DX: 1}
	case Right:
		return core.Vector{DX: -1}
	default:
		return core.Vector{}
	}
}

// At returns origin and terminus for a projectile of size dim crossing zone
// from edge d. u in [0,1) selects the perpendicular coordinate within
// [dim, extent-dim] so projectiles never hug a corner. Both points are
// projectile centers lying dim outside the zone.
func At(d Direction, zone core.Rect, dim, u float64) (origin, terminus core.Point) {
	u = core.ClampF(u, 0, 1)

	switch d {
	case Top, Bottom:
		x := zone.X + along(zone.W, dim, u)
		top := core.Point{X: x, Y: zone.Y - dim}
		bottom := core.Point{X: x, Y: zone.Bottom() + dim}
		if d == Top {
			return top, bottom
		}
		return bottom, top
	default:
		y := zone.Y + along(zone.H, dim, u)
		left := core.Point{X: zone.X - dim, Y: y}
		right := core.Point{X: zone.Right() + dim, Y: y}
		if d == Left {
			return left, right
		}
		return right, left
	}
}

// along maps u onto [dim, extent-dim], falling back to the middle when the
// extent is too small to leave a margin.
func along(extent, dim, u float64) float64 {
	span := extent - 2*dim
	if span <= 0 {
		return extent / 2
	}
	return dim + u*span
}

// TravelDuration returns how long a projectile moving at velocity units per
// second takes from origin to terminus. Velocity must be positive.
func TravelDuration(origin, terminus core.Point, velocity float64) time.Duration {
	seconds := origin.Distance(terminus) / velocity
	return time.Duration(seconds * float64(time.Second))
}

// Calculator draws random directions and perpendicular offsets from a
// seeded source.
type Calculator struct {
	rng *rand.Rand
}

// NewCalculator creates a calculator with the given RNG seed.
func NewCalculator(seed int64) *Calculator {
	return &Calculator{rng: rand.New(rand.NewSource(seed))}
}

// RandomDirection picks one of the four edges uniformly.
func (c *Calculator) RandomDirection() Direction {
	return All[c.rng.Intn(len(All))]
}

// Compute returns origin and terminus for edge d with a fresh random draw.
func (c *Calculator) Compute(d Direction, zone core.Rect, dim float64) (origin, terminus core.Point) {
	return At(d, zone, dim, c.rng.Float64())
}
