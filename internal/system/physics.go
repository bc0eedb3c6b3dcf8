package system

import (
	"math"
	"time"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
)

// DefaultGravity is in pixels per second squared, +Y pointing down.
const DefaultGravity = 980.0

// PhysicsSystem integrates forces into velocity for every dynamic body:
// gravity, then friction and drag as per-second damping. Runs before
// movement and collision.
type PhysicsSystem struct {
	ecs.BaseSystem
	Gravity float64
}

func NewPhysicsSystem(gravity float64) *PhysicsSystem {
	return &PhysicsSystem{BaseSystem: ecs.NewBaseSystem("physics"), Gravity: gravity}
}

func (s *PhysicsSystem) Init() {
	ecs.RegisterComponent[component.RigidBody](s.World())
	ecs.RegisterComponent[component.Velocity](s.World())
}

func (s *PhysicsSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	if sec <= 0 {
		return
	}
	ecs.Each2(s.World(), func(_ ecs.EntityID, body *component.RigidBody, vel *component.Velocity) {
		if body.Static {
			return
		}
		if body.UseGravity {
			vel.Y += s.Gravity * body.GravityScale * sec
		}
		damp := dampFactor(body.Friction, sec) * dampFactor(body.Drag, sec)
		vel.X *= damp
		vel.Y *= damp
	})
}

// ApplyForce changes id's velocity by force/mass. Static bodies ignore it.
func (s *PhysicsSystem) ApplyForce(id ecs.EntityID, fx, fy float64) {
	w := s.World()
	body, ok := ecs.GetComponent[component.RigidBody](w, id)
	if !ok || body.Static {
		return
	}
	vel, ok := ecs.GetComponent[component.Velocity](w, id)
	if !ok {
		return
	}
	inv := body.InverseMass()
	vel.X += fx * inv
	vel.Y += fy * inv
}

// ApplyImpulse adds a raw velocity change to id.
func (s *PhysicsSystem) ApplyImpulse(id ecs.EntityID, ix, iy float64) {
	vel, ok := ecs.GetComponent[component.Velocity](s.World(), id)
	if !ok {
		return
	}
	vel.X += ix
	vel.Y += iy
}

// dampFactor is (1-k)^dt with k clamped to [0, 1].
func dampFactor(k, dt float64) float64 {
	if k <= 0 {
		return 1
	}
	if k >= 1 {
		return 0
	}
	return math.Pow(1-k, dt)
}
