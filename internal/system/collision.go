package system

import (
	"time"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	"github.com/l1jgo/simcore/internal/physics"
)

// Pair is one contact found this frame. It is rebuilt every Update and never
// carried over.
type Pair struct {
	A, B    ecs.EntityID
	Contact physics.Contact
	Trigger bool
}

// CollisionSystem detects and resolves overlaps between entities that have
// both a Position and a Collider. Register it after physics integration and
// movement, and before rendering.
//
// The broad phase tests every unordered pair, O(n²). There is no spatial
// index; that is a known limit for large entity counts.
type CollisionSystem struct {
	ecs.BaseSystem
	bus   *event.Bus
	query *ecs.Query

	// scratch, reused between frames
	bodies []collisionBody
	pairs  []Pair
}

type collisionBody struct {
	id       ecs.EntityID
	pos      *component.Position
	collider *component.Collider
}

// NewCollisionSystem builds the system; bus may be nil.
func NewCollisionSystem(bus *event.Bus) *CollisionSystem {
	return &CollisionSystem{BaseSystem: ecs.NewBaseSystem("collision"), bus: bus}
}

func (s *CollisionSystem) Init() {
	w := s.World()
	ecs.RegisterComponent[component.Position](w)
	ecs.RegisterComponent[component.Collider](w)
	ecs.RegisterComponent[component.Velocity](w)
	ecs.RegisterComponent[component.RigidBody](w)
	s.query = w.Query().With(ecs.KindOf[component.Position](), ecs.KindOf[component.Collider]())
}

// Pairs returns the contacts handled by the last Update.
func (s *CollisionSystem) Pairs() []Pair {
	return s.pairs
}

func (s *CollisionSystem) Update(_ time.Duration) {
	w := s.World()
	s.pairs = s.pairs[:0]

	s.bodies = s.bodies[:0]
	for _, id := range s.query.Execute() {
		pos, _ := ecs.GetComponent[component.Position](w, id)
		col, _ := ecs.GetComponent[component.Collider](w, id)
		s.bodies = append(s.bodies, collisionBody{id: id, pos: pos, collider: col})
	}

	n := len(s.bodies)
	for i := 0; i < n; i++ {
		a := &s.bodies[i]
		for j := i + 1; j < n; j++ {
			b := &s.bodies[j]
			// A callback may have destroyed either side.
			if !w.Alive(a.id) {
				break
			}
			if !w.Alive(b.id) {
				continue
			}
			if !component.CanCollide(a.collider, b.collider) {
				continue
			}
			contact, ok := physics.Collide(*a.pos, a.collider, *b.pos, b.collider)
			if !ok {
				continue
			}
			s.handle(a, b, contact)
		}
	}
}

func (s *CollisionSystem) handle(a, b *collisionBody, c physics.Contact) {
	trigger := a.collider.Trigger || b.collider.Trigger
	s.pairs = append(s.pairs, Pair{A: a.id, B: b.id, Contact: c, Trigger: trigger})

	if trigger {
		if s.bus != nil {
			event.Emit(s.bus, event.TriggerEnter{A: a.id, B: b.id})
		}
		fire(a.collider.OnTriggerEnter, a.id, b.id)
		fire(b.collider.OnTriggerEnter, b.id, a.id)
		return
	}

	s.resolve(a, b, c)
	if s.bus != nil {
		event.Emit(s.bus, event.Collision{
			A: a.id, B: b.id,
			NormalX: c.NormalX, NormalY: c.NormalY, Depth: c.Depth,
		})
	}
	fire(a.collider.OnCollision, a.id, b.id)
	fire(b.collider.OnCollision, b.id, a.id)
}

func (s *CollisionSystem) resolve(a, b *collisionBody, c physics.Contact) {
	w := s.World()
	ba := physics.Body{Pos: a.pos}
	bb := physics.Body{Pos: b.pos}
	if rb, ok := ecs.GetComponent[component.RigidBody](w, a.id); ok {
		ba.Body = rb
	}
	if rb, ok := ecs.GetComponent[component.RigidBody](w, b.id); ok {
		bb.Body = rb
	}
	if v, ok := ecs.GetComponent[component.Velocity](w, a.id); ok {
		ba.Vel = v
	}
	if v, ok := ecs.GetComponent[component.Velocity](w, b.id); ok {
		bb.Vel = v
	}

	physics.Separate(ba, bb, c)
	physics.ApplyImpulse(ba, bb, c)
}

func fire(h component.Handler, self, other ecs.EntityID) {
	if h != nil {
		h(self, other)
	}
}
