// Package physics holds the narrow-phase shape tests and the contact
// resolution math used by the collision system. It knows nothing about the
// World; callers pass component pointers in.
package physics

import (
	"math"

	"github.com/l1jgo/simcore/internal/component"
)

// Contact describes an overlap between A and B. The normal is a unit vector
// pointing from A to B; Depth is how far they must separate along it.
type Contact struct {
	NormalX float64
	NormalY float64
	Depth   float64
}

// Collide runs the narrow-phase test for a pair. Mixed box/circle pairs are
// not supported and never report a contact.
func Collide(pa component.Position, a *component.Collider, pb component.Position, b *component.Collider) (Contact, bool) {
	switch {
	case a.Shape == component.ShapeBox && b.Shape == component.ShapeBox:
		return BoxBox(pa, a, pb, b)
	case a.Shape == component.ShapeCircle && b.Shape == component.ShapeCircle:
		return CircleCircle(pa, a, pb, b)
	}
	return Contact{}, false
}

// BoxBox tests two axis-aligned boxes. Touching edges do not collide: all
// four directed overlaps must be strictly positive. The separation axis is
// the one with the smaller penetration, X on ties.
func BoxBox(pa component.Position, a *component.Collider, pb component.Position, b *component.Collider) (Contact, bool) {
	ax, ay := pa.X+a.OffsetX, pa.Y+a.OffsetY
	bx, by := pb.X+b.OffsetX, pb.Y+b.OffsetY

	overlapRight := ax + a.Width - bx // A's right edge past B's left
	overlapLeft := bx + b.Width - ax  // B's right edge past A's left
	overlapDown := ay + a.Height - by // A's bottom past B's top
	overlapUp := by + b.Height - ay   // B's bottom past A's top
	if overlapRight <= 0 || overlapLeft <= 0 || overlapDown <= 0 || overlapUp <= 0 {
		return Contact{}, false
	}

	penX := math.Min(overlapRight, overlapLeft)
	penY := math.Min(overlapDown, overlapUp)

	// Sign from centres so the normal points from A to B.
	dx := (bx + b.Width/2) - (ax + a.Width/2)
	dy := (by + b.Height/2) - (ay + a.Height/2)

	if penX <= penY {
		return Contact{NormalX: sign(dx), Depth: penX}, true
	}
	return Contact{NormalY: sign(dy), Depth: penY}, true
}

// CircleCircle tests two circles with radius Width/2, each inscribed in its
// collider box. Coincident centres yield the normal (1, 0).
func CircleCircle(pa component.Position, a *component.Collider, pb component.Position, b *component.Collider) (Contact, bool) {
	ra, rb := a.Radius(), b.Radius()
	ax, ay := pa.X+a.OffsetX+ra, pa.Y+a.OffsetY+ra
	bx, by := pb.X+b.OffsetX+rb, pb.Y+b.OffsetY+rb

	dx, dy := bx-ax, by-ay
	dist := math.Hypot(dx, dy)
	sum := ra + rb
	if dist >= sum {
		return Contact{}, false
	}

	// Zero distance fallback, avoids a NaN normal.
	if dist < epsilon {
		return Contact{NormalX: 1, Depth: sum}, true
	}
	return Contact{NormalX: dx / dist, NormalY: dy / dist, Depth: sum - dist}, true
}

const epsilon = 1e-9

// sign maps 0 to +1 so coincident boxes still get a unit normal.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
