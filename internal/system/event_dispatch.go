package system

import (
	"time"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
)

// EventDispatchSystem swaps the bus buffers and delivers last tick's events.
// Register it first so every later system sees the same event set.
type EventDispatchSystem struct {
	ecs.BaseSystem
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{BaseSystem: ecs.NewBaseSystem("event_dispatch"), bus: bus}
}

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
