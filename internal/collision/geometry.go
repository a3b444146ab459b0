package collision

import "github.com/vovakirdan/tui-dodge/internal/core"

// PreciseCollisionPoint returns the center of the overlap between a and b.
// When they do not overlap it returns the midpoint of their centers.
func PreciseCollisionPoint(a, b core.Rect) core.Point {
	if overlap := a.Intersection(b); !overlap.Empty() {
		return overlap.Center()
	}
	return a.Center().Lerp(b.Center(), 0.5)
}

// ImpactDirection returns the unit vector pointing from the projectile's
// center toward the block's center. Coincident centers give the zero vector.
func ImpactDirection(projectile, block core.Rect) core.Vector {
	p := projectile.Center()
	b := block.Center()
	return core.Vector{DX: b.X - p.X, DY: b.Y - p.Y}.Normalize()
}
