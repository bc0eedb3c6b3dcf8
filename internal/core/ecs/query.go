package ecs

// Query selects entities by a required and an excluded component mask.
//
// The result of Execute is cached. The cache is dropped by Invalidate and,
// conservatively, whenever the World's structural version moves, since any
// mask change anywhere may affect any query.
//
// Kinds that are not registered when With or Without is called contribute no
// bits: the query silently matches on fewer constraints. A warning is logged.
type Query struct {
	world    *World
	with     []Kind
	required Mask
	excluded Mask

	cache   []EntityID
	valid   bool
	version uint64
}

// Row is one Get result: an entity and its components in With order. A
// component is nil when its kind was not registered.
type Row struct {
	Entity     EntityID
	Components []any
}

// Query starts an empty query; it matches every live entity until narrowed.
func (w *World) Query() *Query {
	return &Query{world: w}
}

// With requires every kind in kinds.
func (q *Query) With(kinds ...Kind) *Query {
	m, unknown := q.world.registry.maskOf(kinds)
	q.world.warnUnknown("Query.With", unknown)
	q.required |= m
	q.with = append(q.with, kinds...)
	q.Invalidate()
	return q
}

// Without rejects entities owning any kind in kinds.
func (q *Query) Without(kinds ...Kind) *Query {
	m, unknown := q.world.registry.maskOf(kinds)
	q.world.warnUnknown("Query.Without", unknown)
	q.excluded |= m
	q.Invalidate()
	return q
}

func (q *Query) Required() Mask { return q.required }
func (q *Query) Excluded() Mask { return q.excluded }

// Invalidate drops the cached result.
func (q *Query) Invalidate() {
	q.valid = false
}

// Execute returns matching entities in creation order. The returned slice is
// shared with the cache and must not be modified.
func (q *Query) Execute() []EntityID {
	if q.valid && q.version == q.world.version {
		return q.cache
	}
	result := make([]EntityID, 0, len(q.cache))
	q.world.pool.Each(func(id EntityID, m Mask) {
		if m.Matches(q.required, q.excluded) {
			result = append(result, id)
		}
	})
	q.cache = result
	q.version = q.world.version
	q.valid = true
	return result
}

// ForEach calls fn for each matching entity.
func (q *Query) ForEach(fn func(EntityID)) {
	for _, id := range q.Execute() {
		fn(id)
	}
}

// Get projects every match onto its With components.
func (q *Query) Get() []Row {
	ids := q.Execute()
	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		comps := make([]any, len(q.with))
		for i, k := range q.with {
			if c, ok := q.world.Component(id, k); ok {
				comps[i] = c
			}
		}
		rows = append(rows, Row{Entity: id, Components: comps})
	}
	return rows
}

// Each2 iterates, in creation order, over entities that have both A and B.
func Each2[A, B any](w *World, fn func(EntityID, *A, *B)) {
	sa, ida, okA := lookupStore[A](w.registry)
	sb, idb, okB := lookupStore[B](w.registry)
	if !okA || !okB {
		return
	}
	required := Bit(ida) | Bit(idb)
	for _, id := range w.pool.Entities() {
		if !w.pool.Mask(id).Contains(required) {
			continue
		}
		a, _ := sa.Get(id)
		b, _ := sb.Get(id)
		fn(id, a, b)
	}
}

// Each3 iterates, in creation order, over entities that have A, B and C.
func Each3[A, B, C any](w *World, fn func(EntityID, *A, *B, *C)) {
	sa, ida, okA := lookupStore[A](w.registry)
	sb, idb, okB := lookupStore[B](w.registry)
	sc, idc, okC := lookupStore[C](w.registry)
	if !okA || !okB || !okC {
		return
	}
	required := Bit(ida) | Bit(idb) | Bit(idc)
	for _, id := range w.pool.Entities() {
		if !w.pool.Mask(id).Contains(required) {
			continue
		}
		a, _ := sa.Get(id)
		b, _ := sb.Get(id)
		c, _ := sc.Get(id)
		fn(id, a, b, c)
	}
}

// lookupStore returns T's store without registering it. No entity can own an
// unregistered type, so a miss means the iteration is empty.
func lookupStore[T any](r *Registry) (*PtrComponentStore[T], ComponentID, bool) {
	id, ok := r.Lookup(KindOf[T]())
	if !ok {
		return nil, 0, false
	}
	return r.stores[id].(*PtrComponentStore[T]), id, true
}
