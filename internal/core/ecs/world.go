package ecs

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// World is the top-level ECS container. It owns the entity pool, the component
// registry, the ordered system list and a deferred destruction queue flushed
// by the cleanup system each tick.
//
// Every component add or remove goes through the World so that an entity's
// mask is always the exact set of component types it owns.
type World struct {
	pool         *EntityPool
	registry     *Registry
	scheduler    *Scheduler
	destroyQueue []EntityID
	version      uint64
	log          *zap.Logger
}

func NewWorld(log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		scheduler:    NewScheduler(),
		destroyQueue: make([]EntityID, 0, 64),
		log:          log,
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }
func (w *World) Log() *zap.Logger    { return w.log }

// Version changes on every structural change: entity created or destroyed,
// component added or removed. Query caches compare against it.
func (w *World) Version() uint64 { return w.version }

func (w *World) CreateEntity() EntityID {
	w.version++
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.pool.Len()
}

// Mask returns the entity's component mask (0 for unknown entities).
func (w *World) Mask(id EntityID) Mask {
	return w.pool.Mask(id)
}

// DestroyEntity removes every component of id and then the entity itself.
// Destroying an unknown or already destroyed entity does nothing.
func (w *World) DestroyEntity(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
	w.version++
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Use it from
// systems that are still iterating over query results.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities and returns the ones that
// were still alive. Called by the cleanup system at the end of each tick.
func (w *World) FlushDestroyQueue() []EntityID {
	if len(w.destroyQueue) == 0 {
		return nil
	}
	destroyed := make([]EntityID, 0, len(w.destroyQueue))
	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue
		}
		w.DestroyEntity(id)
		destroyed = append(destroyed, id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	return destroyed
}

// Clear destroys every live entity. Registered component types and systems
// are kept.
func (w *World) Clear() {
	for _, id := range w.pool.Entities() {
		w.DestroyEntity(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}

// RegisterComponent registers T with w and returns its id. Idempotent.
func RegisterComponent[T any](w *World) ComponentID {
	return Register[T](w.registry)
}

// ComponentID returns the id of a registered kind.
func (w *World) ComponentID(k Kind) (ComponentID, bool) {
	return w.registry.Lookup(k)
}

// AddComponent attaches c to id, replacing any existing T. The store write
// and the mask update happen together. Dead entities and nil components are
// ignored.
func AddComponent[T any](w *World, id EntityID, c *T) {
	if c == nil || !w.pool.Alive(id) {
		return
	}
	cid := Register[T](w.registry)
	StoreOf[T](w.registry).Set(id, c)
	w.setMask(id, w.pool.Mask(id).Set(cid))
}

// GetComponent returns id's T, or false if it has none.
func GetComponent[T any](w *World, id EntityID) (*T, bool) {
	cid, ok := w.registry.Lookup(KindOf[T]())
	if !ok {
		return nil, false
	}
	return w.registry.stores[cid].(*PtrComponentStore[T]).Get(id)
}

// HasComponentOf reports whether id owns a T.
func HasComponentOf[T any](w *World, id EntityID) bool {
	return w.HasComponent(id, KindOf[T]())
}

// RemoveComponentOf detaches id's T, if any.
func RemoveComponentOf[T any](w *World, id EntityID) {
	w.RemoveComponent(id, KindOf[T]())
}

// RemoveComponent detaches the component of kind k from id. Missing
// components and unregistered kinds are a no-op.
func (w *World) RemoveComponent(id EntityID, k Kind) {
	cid, ok := w.registry.Lookup(k)
	if !ok {
		return
	}
	w.registry.stores[cid].Remove(id)
	w.setMask(id, w.pool.Mask(id).Clear(cid))
}

// Component returns id's component of kind k as a pointer (e.g. *Position).
func (w *World) Component(id EntityID, k Kind) (any, bool) {
	cid, ok := w.registry.Lookup(k)
	if !ok {
		return nil, false
	}
	return w.registry.stores[cid].get(id)
}

// HasComponent reports whether id owns a component of kind k.
func (w *World) HasComponent(id EntityID, k Kind) bool {
	cid, ok := w.registry.Lookup(k)
	if !ok {
		return false
	}
	return w.registry.stores[cid].Has(id)
}

func (w *World) setMask(id EntityID, m Mask) {
	if w.pool.Mask(id) == m {
		return
	}
	w.pool.SetMask(id, m)
	w.version++
}

// EntitiesWith returns, in creation order, every entity owning all of kinds.
// It is a one-shot scan; use Query for a cached result.
func (w *World) EntitiesWith(kinds ...Kind) []EntityID {
	required, unknown := w.registry.maskOf(kinds)
	w.warnUnknown("EntitiesWith", unknown)
	out := make([]EntityID, 0, 16)
	w.pool.Each(func(id EntityID, m Mask) {
		if m.Contains(required) {
			out = append(out, id)
		}
	})
	return out
}

func (w *World) warnUnknown(op string, kinds []Kind) {
	for _, k := range kinds {
		w.log.Warn("query references unregistered component type",
			zap.String("op", op), zap.Stringer("kind", k))
	}
}

// AddSystem appends s to the update order, binds it to w and runs its Init
// hook once.
func (w *World) AddSystem(s System) error {
	if err := w.scheduler.Register(s); err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	s.Bind(w)
	if in, ok := s.(Initializer); ok {
		in.Init()
	}
	w.log.Debug("system added", zap.String("system", s.Name()))
	return nil
}

// System looks up a system by name. A miss is logged and reported as false.
func (w *World) System(name string) (System, bool) {
	s, ok := w.scheduler.Get(name)
	if !ok {
		w.log.Warn("system not found", zap.String("system", name))
	}
	return s, ok
}

// SystemOf returns the first registered system of concrete type T.
func SystemOf[T System](w *World) (T, bool) {
	for _, s := range w.scheduler.systems {
		if t, ok := s.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// RemoveSystem unregisters the named system and runs its Destroy hook.
func (w *World) RemoveSystem(name string) bool {
	s, ok := w.scheduler.Unregister(name)
	if !ok {
		w.log.Warn("remove unknown system", zap.String("system", name))
		return false
	}
	if d, ok := s.(Destroyer); ok {
		d.Destroy()
	}
	s.Bind(nil)
	return true
}

// Systems returns the registered systems in execution order.
func (w *World) Systems() []System {
	return w.scheduler.Systems()
}

// Update runs one tick: every enabled system's Update in registration order.
func (w *World) Update(dt time.Duration) {
	w.scheduler.Tick(dt)
}

// Render runs every enabled system's Render in registration order.
func (w *World) Render() {
	w.scheduler.RenderAll()
}

// Close runs every system's Destroy hook in reverse registration order and
// clears all entities.
func (w *World) Close() {
	systems := w.scheduler.Systems()
	for i := len(systems) - 1; i >= 0; i-- {
		if d, ok := systems[i].(Destroyer); ok {
			d.Destroy()
		}
	}
	w.Clear()
}
