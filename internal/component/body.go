package component

// RigidBody holds the physical properties used by integration and collision
// response. Static bodies are never moved by either.
type RigidBody struct {
	Mass         float64
	Static       bool
	UseGravity   bool
	GravityScale float64
	Friction     float64 // per-second damping fraction, 0..1
	Drag         float64 // per-second damping fraction, 0..1
	Restitution  float64 // bounciness, 0..1
}

// NewRigidBody returns a dynamic body with the engine defaults.
func NewRigidBody(mass float64) *RigidBody {
	return &RigidBody{
		Mass:         mass,
		UseGravity:   true,
		GravityScale: 1,
		Friction:     0.1,
		Drag:         0.01,
		Restitution:  0.5,
	}
}

// EffectiveMass is Mass, or 1 when the body is missing or has no positive mass.
func (b *RigidBody) EffectiveMass() float64 {
	if b == nil || b.Mass <= 0 {
		return 1
	}
	return b.Mass
}

// IsStatic is false for a missing body.
func (b *RigidBody) IsStatic() bool {
	return b != nil && b.Static
}

// InverseMass is 0 for static bodies.
func (b *RigidBody) InverseMass() float64 {
	if b.IsStatic() {
		return 0
	}
	return 1 / b.EffectiveMass()
}
