package system

import (
	"time"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	"go.uber.org/zap"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Register it after every system that may call MarkForDestruction.
type CleanupSystem struct {
	ecs.BaseSystem
	bus *event.Bus
}

// NewCleanupSystem builds the system; bus may be nil.
func NewCleanupSystem(bus *event.Bus) *CleanupSystem {
	return &CleanupSystem{BaseSystem: ecs.NewBaseSystem("cleanup"), bus: bus}
}

func (s *CleanupSystem) Update(_ time.Duration) {
	w := s.World()
	destroyed := w.FlushDestroyQueue()
	if len(destroyed) == 0 {
		return
	}
	if s.bus != nil {
		for _, id := range destroyed {
			event.Emit(s.bus, event.EntityDestroyed{EntityID: id})
		}
	}
	w.Log().Debug("entities destroyed", zap.Int("count", len(destroyed)))
}
