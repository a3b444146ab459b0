package trajectory

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-dodge/internal/core"
)

func TestAtEdges(t *testing.T) {
	zone := core.NewRect(0, 0, 400, 300)
	const dim = 20

	tests := []struct {
		name     string
		dir      Direction
		u        float64
		origin   core.Point
		terminus core.Point
	}{
		{"top at min", Top, 0, core.Point{X: 20, Y: -20}, core.Point{X: 20, Y: 320}},
		{"bottom at mid", Bottom, 0.5, core.Point{X: 200, Y: 320}, core.Point{X: 200, Y: -20}},
		{"left at min", Left, 0, core.Point{X: -20, Y: 20}, core.Point{X: 420, Y: 20}},
		{"right at mid", Right, 0.5, core.Point{X: 420, Y: 150}, core.Point{X: -20, Y: 150}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o, term := At(tc.dir, zone, dim, tc.u)
			if o != tc.origin {
				t.Errorf("origin = %v, expected %v", o, tc.origin)
			}
			if term != tc.terminus {
				t.Errorf("terminus = %v, expected %v", term, tc.terminus)
			}
			if zone.Contains(o) || zone.Contains(term) {
				t.Error("origin and terminus must lie outside the play zone")
			}
		})
	}
}

func TestAtStaysOffCorners(t *testing.T) {
	zone := core.NewRect(100, 50, 400, 300)
	const dim = 25

	for _, d := range All {
		for _, u := range []float64{0, 0.25, 0.999999, 1} {
			o, _ := At(d, zone, dim, u)
			switch d {
			case Top, Bottom:
				if o.X < zone.X+dim || o.X > zone.Right()-dim {
					t.Errorf("%s u=%f: x=%f outside [%f, %f]", d, u, o.X, zone.X+dim, zone.Right()-dim)
				}
			default:
				if o.Y < zone.Y+dim || o.Y > zone.Bottom()-dim {
					t.Errorf("%s u=%f: y=%f outside [%f, %f]", d, u, o.Y, zone.Y+dim, zone.Bottom()-dim)
				}
			}
		}
	}
}

func TestAtNarrowZoneUsesMiddle(t *testing.T) {
	zone := core.NewRect(0, 0, 30, 300)
	o, _ := At(Top, zone, 20, 0.9)
	if o.X != 15 {
		t.Errorf("narrow zone should spawn in the middle, got x=%f", o.X)
	}
}

func TestTravelDuration(t *testing.T) {
	d := TravelDuration(core.Point{X: 0, Y: 0}, core.Point{X: 300, Y: 400}, 250)
	if d != 2*time.Second {
		t.Errorf("TravelDuration = %v, expected 2s", d)
	}
}

func TestCalculatorDeterministic(t *testing.T) {
	zone := core.NewRect(0, 0, 400, 300)
	a := NewCalculator(7)
	b := NewCalculator(7)

	for i := 0; i < 20; i++ {
		da, db := a.RandomDirection(), b.RandomDirection()
		if da != db {
			t.Fatalf("draw %d: directions differ %s vs %s", i, da, db)
		}
		oa, ta := a.Compute(da, zone, 10)
		ob, tb := b.Compute(db, zone, 10)
		if oa != ob || ta != tb {
			t.Fatalf("draw %d: trajectories differ", i)
		}
	}
}

func TestCalculatorCoversAllDirections(t *testing.T) {
	c := NewCalculator(42)
	seen := make(map[Direction]bool)
	for i := 0; i < 200; i++ {
		seen[c.RandomDirection()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected all four directions over 200 draws, saw %d", len(seen))
	}
}

func TestDirectionHeading(t *testing.T) {
	if h := Top.Heading(); h != (core.Vector{DY: 1}) {
		t.Errorf("Top heading = %v, expected downward", h)
	}
	if h := Right.Heading(); h != (core.Vector{DX: -1}) {
		t.Errorf("Right heading = %v, expected leftward", h)
	}
	if Left.String() != "left" {
		t.Errorf("Left.String() = %q", Left.String())
	}
}
