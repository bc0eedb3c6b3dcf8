package ecs

import (
	"errors"
	"fmt"
)

// ErrTooManyComponentTypes is the panic value when a World registers more
// component types than a Mask has bits.
var ErrTooManyComponentTypes = errors.New("ecs: component type capacity exceeded")

// Registry assigns ComponentIDs to component types and owns one store per
// type. It does not maintain masks; World does.
type Registry struct {
	ids    map[Kind]ComponentID
	kinds  []Kind
	stores []Store
}

func NewRegistry() *Registry {
	return &Registry{
		ids:    make(map[Kind]ComponentID, 16),
		kinds:  make([]Kind, 0, 16),
		stores: make([]Store, 0, 16),
	}
}

// Lookup returns the id of a registered kind.
func (r *Registry) Lookup(k Kind) (ComponentID, bool) {
	id, ok := r.ids[k]
	return id, ok
}

// Len returns the number of registered component types.
func (r *Registry) Len() int {
	return len(r.stores)
}

// Kind returns the kind registered under id.
func (r *Registry) Kind(id ComponentID) Kind {
	if int(id) >= len(r.kinds) {
		return Kind{}
	}
	return r.kinds[id]
}

// Store returns the store registered under id, or nil.
func (r *Registry) Store(id ComponentID) Store {
	if int(id) >= len(r.stores) {
		return nil
	}
	return r.stores[id]
}

// register adds store under k, or returns the existing id. Panics with
// ErrTooManyComponentTypes once every Mask bit is taken.
func (r *Registry) register(k Kind, newStore func() Store) ComponentID {
	if id, ok := r.ids[k]; ok {
		return id
	}
	if len(r.stores) >= MaxComponentTypes {
		panic(fmt.Errorf("%w: registering %s (max %d)", ErrTooManyComponentTypes, k, MaxComponentTypes))
	}
	id := ComponentID(len(r.stores))
	r.ids[k] = id
	r.kinds = append(r.kinds, k)
	r.stores = append(r.stores, newStore())
	return id
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// Register registers T in r and returns its id. Idempotent.
func Register[T any](r *Registry) ComponentID {
	return r.register(KindOf[T](), func() Store { return NewPtrComponentStore[T]() })
}

// StoreOf returns the typed store for T, registering T if needed.
func StoreOf[T any](r *Registry) *PtrComponentStore[T] {
	id := Register[T](r)
	return r.stores[id].(*PtrComponentStore[T])
}

// maskOf folds the ids of kinds into a mask. Unregistered kinds contribute
// no bits; they are returned so the caller can report them.
func (r *Registry) maskOf(kinds []Kind) (Mask, []Kind) {
	var m Mask
	var unknown []Kind
	for _, k := range kinds {
		id, ok := r.ids[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		m = m.Set(id)
	}
	return m, unknown
}
