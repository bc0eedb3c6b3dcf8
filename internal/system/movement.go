package system

import (
	"math"
	"time"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
)

// MovementSystem advances positions by velocity, then enforces MaxSpeed.
// Static rigid bodies are skipped.
type MovementSystem struct {
	ecs.BaseSystem
}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{BaseSystem: ecs.NewBaseSystem("movement")}
}

func (s *MovementSystem) Init() {
	ecs.RegisterComponent[component.Position](s.World())
	ecs.RegisterComponent[component.Velocity](s.World())
}

func (s *MovementSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	w := s.World()
	ecs.Each2(w, func(id ecs.EntityID, pos *component.Position, vel *component.Velocity) {
		if body, ok := ecs.GetComponent[component.RigidBody](w, id); ok && body.Static {
			return
		}
		pos.X += vel.X * sec
		pos.Y += vel.Y * sec

		if vel.MaxSpeed > 0 {
			speed := math.Hypot(vel.X, vel.Y)
			if speed > vel.MaxSpeed {
				f := vel.MaxSpeed / speed
				vel.X *= f
				vel.Y *= f
			}
		}
	})
}
