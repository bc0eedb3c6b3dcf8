package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryWithWithout(t *testing.T) {
	w := NewWorld(nil)
	RegisterComponent[Frozen](w)

	moving := w.CreateEntity()
	AddComponent(w, moving, &Position{})
	AddComponent(w, moving, &Velocity{})

	frozen := w.CreateEntity()
	AddComponent(w, frozen, &Position{})
	AddComponent(w, frozen, &Velocity{})
	AddComponent(w, frozen, &Frozen{})

	still := w.CreateEntity()
	AddComponent(w, still, &Position{})

	q := w.Query().With(KindOf[Position](), KindOf[Velocity]()).Without(KindOf[Frozen]())
	assert.Equal(t, []EntityID{moving}, q.Execute())

	all := w.Query().With(KindOf[Position]())
	assert.Equal(t, []EntityID{moving, frozen, still}, all.Execute())
}

func TestQueryCacheIdempotentAndInvalidated(t *testing.T) {
	w := NewWorld(nil)
	a := w.CreateEntity()
	AddComponent(w, a, &Position{})

	q := w.Query().With(KindOf[Position]())
	first := q.Execute()
	second := q.Execute()
	assert.Equal(t, first, second)
	// served from cache: same backing array
	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &second[0])

	b := w.CreateEntity()
	AddComponent(w, b, &Position{})
	assert.Equal(t, []EntityID{a, b}, q.Execute())

	RemoveComponentOf[Position](w, a)
	assert.Equal(t, []EntityID{b}, q.Execute())

	w.DestroyEntity(b)
	assert.Empty(t, q.Execute())

	q.Invalidate()
	assert.Empty(t, q.Execute())
}

func TestQueryForEachAndGet(t *testing.T) {
	w := NewWorld(nil)
	e := w.CreateEntity()
	pos := &Position{X: 3}
	vel := &Velocity{Y: 4}
	AddComponent(w, e, pos)
	AddComponent(w, e, vel)

	q := w.Query().With(KindOf[Position](), KindOf[Velocity]())

	var seen []EntityID
	q.ForEach(func(id EntityID) { seen = append(seen, id) })
	assert.Equal(t, []EntityID{e}, seen)

	rows := q.Get()
	require.Len(t, rows, 1)
	assert.Equal(t, e, rows[0].Entity)
	require.Len(t, rows[0].Components, 2)
	assert.Same(t, pos, rows[0].Components[0].(*Position))
	assert.Same(t, vel, rows[0].Components[1].(*Velocity))
}

func TestQueryUnregisteredKindIsPermissive(t *testing.T) {
	w := NewWorld(nil)
	e := w.CreateEntity()
	AddComponent(w, e, &Position{})

	// Label was never registered: the constraint drops out.
	q := w.Query().With(KindOf[Position](), KindOf[Label]())
	assert.Equal(t, []EntityID{e}, q.Execute())
	assert.Equal(t, Bit(0), q.Required())

	rows := q.Get()
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Components[1])

	ex := w.Query().Without(KindOf[Label]())
	assert.Equal(t, []EntityID{e}, ex.Execute())
	assert.Equal(t, Mask(0), ex.Excluded())
}

func TestEmptyQueryMatchesEveryEntity(t *testing.T) {
	w := NewWorld(nil)
	a := w.CreateEntity()
	b := w.CreateEntity()
	assert.Equal(t, []EntityID{a, b}, w.Query().Execute())
}

func TestEach2Each3(t *testing.T) {
	w := NewWorld(nil)
	var want2, want3 []EntityID
	for i := 0; i < 6; i++ {
		e := w.CreateEntity()
		AddComponent(w, e, &Position{X: float64(i)})
		if i%2 == 0 {
			AddComponent(w, e, &Velocity{X: 1})
			want2 = append(want2, e)
			if i%4 == 0 {
				AddComponent(w, e, &Label{Text: "x"})
				want3 = append(want3, e)
			}
		}
	}

	var got2 []EntityID
	Each2(w, func(id EntityID, p *Position, v *Velocity) {
		p.X += v.X
		got2 = append(got2, id)
	})
	assert.Equal(t, want2, got2)

	var got3 []EntityID
	Each3(w, func(id EntityID, _ *Position, _ *Velocity, l *Label) {
		assert.Equal(t, "x", l.Text)
		got3 = append(got3, id)
	})
	assert.Equal(t, want3, got3)

	p, _ := GetComponent[Position](w, want2[1])
	assert.Equal(t, 3.0, p.X)
}

func TestEachDoesNotRegisterTypes(t *testing.T) {
	w := NewWorld(nil)
	e := w.CreateEntity()
	AddComponent(w, e, &Position{})
	before := w.Registry().Len()

	calls := 0
	Each2(w, func(EntityID, *Position, *Velocity) { calls++ })
	Each3(w, func(EntityID, *Position, *Velocity, *Label) { calls++ })

	assert.Zero(t, calls)
	assert.Equal(t, before, w.Registry().Len())
	_, ok := w.ComponentID(KindOf[Velocity]())
	assert.False(t, ok)
}
