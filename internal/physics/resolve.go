package physics

import "github.com/l1jgo/simcore/internal/component"

// Body is one side of a solid contact. Vel and Body may be nil.
type Body struct {
	Pos  *component.Position
	Vel  *component.Velocity
	Body *component.RigidBody
}

// Separate pushes a and b apart along the contact normal. Each side moves by
// the other side's share of the total mass, so heavier bodies move less.
// Static bodies never move; against a static body the other side takes the
// whole correction.
func Separate(a, b Body, c Contact) {
	staticA, staticB := a.Body.IsStatic(), b.Body.IsStatic()
	if staticA && staticB {
		return
	}

	var ratioA, ratioB float64
	switch {
	case staticA:
		ratioB = 1
	case staticB:
		ratioA = 1
	default:
		ma, mb := a.Body.EffectiveMass(), b.Body.EffectiveMass()
		total := ma + mb
		ratioA = mb / total
		ratioB = ma / total
	}

	if ratioA > 0 {
		a.Pos.X -= c.NormalX * c.Depth * ratioA
		a.Pos.Y -= c.NormalY * c.Depth * ratioA
	}
	if ratioB > 0 {
		b.Pos.X += c.NormalX * c.Depth * ratioB
		b.Pos.Y += c.NormalY * c.Depth * ratioB
	}
}

// ApplyImpulse changes both velocities so the pair stops approaching along
// the normal, using the smaller restitution of the two. It does nothing
// unless both sides have a velocity and a rigid body, or when the bodies
// are already separating. Returns the impulse magnitude applied.
func ApplyImpulse(a, b Body, c Contact) float64 {
	if a.Vel == nil || b.Vel == nil || a.Body == nil || b.Body == nil {
		return 0
	}

	relVel := (b.Vel.X-a.Vel.X)*c.NormalX + (b.Vel.Y-a.Vel.Y)*c.NormalY
	if relVel >= 0 {
		return 0
	}

	invA, invB := a.Body.InverseMass(), b.Body.InverseMass()
	if invA+invB == 0 {
		return 0
	}

	e := min(a.Body.Restitution, b.Body.Restitution)
	j := -(1 + e) * relVel / (invA + invB)

	a.Vel.X -= j * invA * c.NormalX
	a.Vel.Y -= j * invA * c.NormalY
	b.Vel.X += j * invB * c.NormalX
	b.Vel.Y += j * invB * c.NormalY
	return j
}
