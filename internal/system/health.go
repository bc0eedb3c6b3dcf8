package system

import (
	"time"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
)

// HealthSystem ticks regeneration and invulnerability windows and queues
// dead entities flagged DestroyOnDeath for cleanup.
type HealthSystem struct {
	ecs.BaseSystem
	query *ecs.Query
}

func NewHealthSystem() *HealthSystem {
	return &HealthSystem{BaseSystem: ecs.NewBaseSystem("health")}
}

func (s *HealthSystem) Init() {
	w := s.World()
	ecs.RegisterComponent[component.Health](w)
	s.query = w.Query().With(ecs.KindOf[component.Health]())
}

func (s *HealthSystem) Update(dt time.Duration) {
	w := s.World()
	sec := dt.Seconds()
	s.query.ForEach(func(id ecs.EntityID) {
		h, ok := ecs.GetComponent[component.Health](w, id)
		if !ok {
			return
		}

		if h.Regeneration > 0 && h.Current > 0 && h.Current < h.Max {
			h.Heal(h.Regeneration * sec)
		}

		if h.InvulnerableFor > 0 {
			h.InvulnerableFor -= sec
			h.Invulnerable = h.InvulnerableFor > 0
			if h.InvulnerableFor < 0 {
				h.InvulnerableFor = 0
			}
		}

		if h.Current <= 0 && h.DestroyOnDeath {
			w.MarkForDestruction(id)
		}
	})
}
