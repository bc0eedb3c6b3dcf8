package ecs

import (
	"errors"
	"fmt"
	"time"
)

// ErrDuplicateSystem is returned when a system name is registered twice.
var ErrDuplicateSystem = errors.New("ecs: duplicate system name")

// Scheduler runs systems in registration order. Order is load-bearing and is
// the caller's responsibility: input, physics integration, movement,
// collision, gameplay, cleanup, then rendering.
type Scheduler struct {
	systems []System
	byName  map[string]System
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		systems: make([]System, 0, 16),
		byName:  make(map[string]System, 16),
	}
}

// Register appends s. Names must be unique.
func (r *Scheduler) Register(s System) error {
	name := s.Name()
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSystem, name)
	}
	r.systems = append(r.systems, s)
	r.byName[name] = s
	return nil
}

// Unregister removes the named system and returns it.
func (r *Scheduler) Unregister(name string) (System, bool) {
	s, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	delete(r.byName, name)
	kept := make([]System, 0, len(r.systems))
	for _, cur := range r.systems {
		if cur != s {
			kept = append(kept, cur)
		}
	}
	r.systems = kept
	return s, true
}

func (r *Scheduler) Get(name string) (System, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Systems returns the registered systems in execution order.
func (r *Scheduler) Systems() []System {
	out := make([]System, len(r.systems))
	copy(out, r.systems)
	return out
}

// Tick runs Update on every enabled Updater. Systems registered during the
// tick first run on the next one; systems removed during the tick are skipped.
func (r *Scheduler) Tick(dt time.Duration) {
	systems := r.systems
	for _, s := range systems {
		if !r.active(s) {
			continue
		}
		if u, ok := s.(Updater); ok {
			u.Update(dt)
		}
	}
}

// RenderAll runs Render on every enabled Renderer.
func (r *Scheduler) RenderAll() {
	systems := r.systems
	for _, s := range systems {
		if !r.active(s) {
			continue
		}
		if rd, ok := s.(Renderer); ok {
			rd.Render()
		}
	}
}

// active reports whether s is still registered and enabled.
func (r *Scheduler) active(s System) bool {
	return r.byName[s.Name()] == s && s.Enabled()
}
