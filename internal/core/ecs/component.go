package ecs

import "reflect"

// ComponentID is the stable small-integer index of a registered component
// type. It doubles as the bit position in a Mask.
type ComponentID uint8

// Kind names a component schema. Kinds are comparable and cheap to copy; the
// zero Kind names nothing and never matches a registered type.
type Kind struct {
	rt reflect.Type
}

// KindOf returns the Kind for component type T. Components are stored as *T,
// so KindOf[Position]() and the stored *Position refer to the same schema.
func KindOf[T any]() Kind {
	return Kind{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

func (k Kind) String() string {
	if k.rt == nil {
		return "<nil>"
	}
	return k.rt.String()
}

// Store is implemented by every typed component store so the Registry can
// operate on an entity's data without knowing the concrete type.
type Store interface {
	Remove(id EntityID)
	Has(id EntityID) bool
	Len() int
	get(id EntityID) (any, bool)
}

// PtrComponentStore is a generic typed map store for ECS components.
type PtrComponentStore[T any] struct {
	data map[EntityID]*T
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		data: make(map[EntityID]*T, 256),
	}
}

// Set stores c for id, replacing any previous instance.
func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

// Each visits every stored instance in unspecified order.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

func (s *PtrComponentStore[T]) get(id EntityID) (any, bool) {
	c, ok := s.data[id]
	if !ok {
		return nil, false
	}
	return c, true
}
