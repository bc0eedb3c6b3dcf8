package system

import (
	"testing"
	"time"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 16 * time.Millisecond

func newCollisionWorld(t *testing.T, bus *event.Bus) (*ecs.World, *CollisionSystem) {
	t.Helper()
	w := ecs.NewWorld(nil)
	cs := NewCollisionSystem(bus)
	require.NoError(t, w.AddSystem(cs))
	return w, cs
}

func spawnBox(w *ecs.World, x, y float64, col *component.Collider) ecs.EntityID {
	id := w.CreateEntity()
	ecs.AddComponent(w, id, &component.Position{X: x, Y: y})
	ecs.AddComponent(w, id, col)
	return id
}

func addBody(w *ecs.World, id ecs.EntityID, vx float64, body *component.RigidBody) {
	ecs.AddComponent(w, id, &component.Velocity{X: vx})
	ecs.AddComponent(w, id, body)
}

func TestCollisionSeparatesBoxes(t *testing.T) {
	w, cs := newCollisionWorld(t, nil)
	a := spawnBox(w, 0, 0, component.NewBoxCollider(32, 32))
	b := spawnBox(w, 16, 0, component.NewBoxCollider(32, 32))

	w.Update(frame)

	require.Len(t, cs.Pairs(), 1)
	p := cs.Pairs()[0]
	assert.Equal(t, a, p.A)
	assert.Equal(t, b, p.B)
	assert.Equal(t, 1.0, p.Contact.NormalX)
	assert.Equal(t, 16.0, p.Contact.Depth)

	pa, _ := ecs.GetComponent[component.Position](w, a)
	pb, _ := ecs.GetComponent[component.Position](w, b)
	assert.InDelta(t, -8, pa.X, 1e-9)
	assert.InDelta(t, 24, pb.X, 1e-9)

	// separated now; next frame finds nothing
	w.Update(frame)
	assert.Empty(t, cs.Pairs())
}

func TestCollisionCallbacksFireOncePerPair(t *testing.T) {
	w, _ := newCollisionWorld(t, nil)

	calls := map[ecs.EntityID][]ecs.EntityID{}
	record := func(self, other ecs.EntityID) { calls[self] = append(calls[self], other) }

	ca := component.NewBoxCollider(32, 32)
	ca.OnCollision = record
	cb := component.NewBoxCollider(32, 32)
	cb.OnCollision = record
	a := spawnBox(w, 0, 0, ca)
	b := spawnBox(w, 10, 0, cb)

	w.Update(frame)

	assert.Equal(t, []ecs.EntityID{b}, calls[a])
	assert.Equal(t, []ecs.EntityID{a}, calls[b])
}

func TestTriggerFiresEnterWithoutResponse(t *testing.T) {
	bus := event.NewBus()
	w, cs := newCollisionWorld(t, bus)

	var entered [][2]ecs.EntityID
	collided := 0

	zone := component.NewBoxCollider(32, 32)
	zone.Trigger = true
	zone.OnTriggerEnter = func(self, other ecs.EntityID) { entered = append(entered, [2]ecs.EntityID{self, other}) }
	zone.OnCollision = func(ecs.EntityID, ecs.EntityID) { collided++ }

	player := component.NewBoxCollider(32, 32)
	player.OnTriggerEnter = func(self, other ecs.EntityID) { entered = append(entered, [2]ecs.EntityID{self, other}) }
	player.OnCollision = func(ecs.EntityID, ecs.EntityID) { collided++ }

	z := spawnBox(w, 0, 0, zone)
	p := spawnBox(w, 16, 0, player)
	addBody(w, p, -40, component.NewRigidBody(1))

	w.Update(frame)

	require.Len(t, cs.Pairs(), 1)
	assert.True(t, cs.Pairs()[0].Trigger)
	assert.Equal(t, [][2]ecs.EntityID{{z, p}, {p, z}}, entered)
	assert.Zero(t, collided)

	zp, _ := ecs.GetComponent[component.Position](w, z)
	pp, _ := ecs.GetComponent[component.Position](w, p)
	assert.Equal(t, component.Position{X: 0, Y: 0}, *zp)
	assert.Equal(t, component.Position{X: 16, Y: 0}, *pp)
	vel, _ := ecs.GetComponent[component.Velocity](w, p)
	assert.Equal(t, -40.0, vel.X)

	assert.Equal(t, 1, event.Pending[event.TriggerEnter](bus))
	assert.Zero(t, event.Pending[event.Collision](bus))
}

func TestLayerMaskIsSymmetric(t *testing.T) {
	w, cs := newCollisionWorld(t, nil)

	a := component.NewBoxCollider(32, 32)
	a.Layer = 1
	a.Mask = 1 << 2 // wants layer 2
	b := component.NewBoxCollider(32, 32)
	b.Layer = 2
	b.Mask = 1 << 3 // does not want layer 1
	spawnBox(w, 0, 0, a)
	spawnBox(w, 8, 0, b)

	w.Update(frame)
	assert.Empty(t, cs.Pairs())

	b.Mask |= 1 << 1
	w.Update(frame)
	assert.Len(t, cs.Pairs(), 1)
}

func TestElasticHeadOnReversesVelocity(t *testing.T) {
	w, _ := newCollisionWorld(t, nil)

	a := spawnBox(w, 0, 0, component.NewCircleCollider(10))
	b := spawnBox(w, 15, 0, component.NewCircleCollider(10))
	ra := component.NewRigidBody(1)
	ra.Restitution = 1
	rb := component.NewRigidBody(1)
	rb.Restitution = 1
	addBody(w, a, 30, ra)
	addBody(w, b, -30, rb)

	w.Update(frame)

	va, _ := ecs.GetComponent[component.Velocity](w, a)
	vb, _ := ecs.GetComponent[component.Velocity](w, b)
	assert.InDelta(t, -30, va.X, 1e-9)
	assert.InDelta(t, 30, vb.X, 1e-9)
}

func TestStaticBodyNeverMoves(t *testing.T) {
	w, _ := newCollisionWorld(t, nil)

	wall := spawnBox(w, 0, 0, component.NewBoxCollider(32, 32))
	ball := spawnBox(w, 20, 0, component.NewBoxCollider(32, 32))
	static := component.NewRigidBody(1000)
	static.Static = true
	addBody(w, wall, 0, static)
	addBody(w, ball, -50, component.NewRigidBody(1))

	w.Update(frame)

	wp, _ := ecs.GetComponent[component.Position](w, wall)
	wv, _ := ecs.GetComponent[component.Velocity](w, wall)
	assert.Equal(t, component.Position{}, *wp)
	assert.Equal(t, 0.0, wv.X)

	bp, _ := ecs.GetComponent[component.Position](w, ball)
	bv, _ := ecs.GetComponent[component.Velocity](w, ball)
	assert.InDelta(t, 32, bp.X, 1e-9)
	assert.Greater(t, bv.X, 0.0)
}

func TestMixedShapesDoNotCollide(t *testing.T) {
	w, cs := newCollisionWorld(t, nil)
	spawnBox(w, 0, 0, component.NewBoxCollider(32, 32))
	spawnBox(w, 0, 0, component.NewCircleCollider(16))

	w.Update(frame)
	assert.Empty(t, cs.Pairs())
}

func TestCallbackDestroyingEntitySkipsRemainingPairs(t *testing.T) {
	w, cs := newCollisionWorld(t, nil)

	bullet := component.NewBoxCollider(8, 8)
	bullet.Trigger = true
	var hits int
	var bulletID ecs.EntityID
	bullet.OnTriggerEnter = func(self, _ ecs.EntityID) {
		hits++
		w.DestroyEntity(self)
	}
	bulletID = spawnBox(w, 0, 0, bullet)
	spawnBox(w, 2, 0, component.NewBoxCollider(8, 8))
	spawnBox(w, 4, 0, component.NewBoxCollider(8, 8))

	w.Update(frame)

	assert.Equal(t, 1, hits)
	assert.False(t, w.Alive(bulletID))
	// bullet hit the first target; the two targets still collide with each other
	assert.Len(t, cs.Pairs(), 2)
}

func TestCollisionEventsReachSubscribersNextTick(t *testing.T) {
	bus := event.NewBus()
	w := ecs.NewWorld(nil)
	require.NoError(t, w.AddSystem(NewEventDispatchSystem(bus)))
	require.NoError(t, w.AddSystem(NewCollisionSystem(bus)))

	var got []event.Collision
	event.Subscribe(bus, func(ev event.Collision) { got = append(got, ev) })

	a := spawnBox(w, 0, 0, component.NewBoxCollider(32, 32))
	b := spawnBox(w, 16, 0, component.NewBoxCollider(32, 32))

	w.Update(frame)
	assert.Empty(t, got)

	w.Update(frame)
	require.Len(t, got, 1)
	assert.Equal(t, a, got[0].A)
	assert.Equal(t, b, got[0].B)
	assert.Equal(t, 16.0, got[0].Depth)
}
