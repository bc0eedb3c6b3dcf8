package ecs

// EntityID identifies an entity. IDs increase monotonically from 1 and are
// never reused, so a stale id simply stops being Alive.
type EntityID uint64

func (id EntityID) IsZero() bool { return id == 0 }

// EntityPool issues entity ids and stores each live entity's component mask.
// Enumeration follows creation order.
type EntityPool struct {
	masks  map[EntityID]Mask
	order  []EntityID
	dead   int
	nextID EntityID
	// iterating counts nested Each calls; compaction waits until it is zero.
	iterating int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		masks: make(map[EntityID]Mask, 1024),
		order: make([]EntityID, 0, 1024),
	}
}

// Create issues a new id with an empty mask.
func (p *EntityPool) Create() EntityID {
	p.nextID++
	id := p.nextID
	p.masks[id] = 0
	p.order = append(p.order, id)
	return id
}

func (p *EntityPool) Alive(id EntityID) bool {
	_, ok := p.masks[id]
	return ok
}

// Destroy forgets the entity. Unknown or already destroyed ids are ignored.
func (p *EntityPool) Destroy(id EntityID) {
	if _, ok := p.masks[id]; !ok {
		return
	}
	delete(p.masks, id)
	p.dead++
	// Compact lazily once tombstones dominate the order slice.
	if p.iterating == 0 && p.needsCompact() {
		p.compact()
	}
}

func (p *EntityPool) needsCompact() bool {
	return p.dead > 64 && p.dead*2 > len(p.order)
}

func (p *EntityPool) compact() {
	live := p.order[:0]
	for _, id := range p.order {
		if _, ok := p.masks[id]; ok {
			live = append(live, id)
		}
	}
	for i := len(live); i < len(p.order); i++ {
		p.order[i] = 0
	}
	p.order = live
	p.dead = 0
}

// Mask returns the entity's component mask, or 0 for unknown entities.
func (p *EntityPool) Mask(id EntityID) Mask {
	return p.masks[id]
}

// SetMask replaces the mask of a live entity. Unknown entities are ignored.
func (p *EntityPool) SetMask(id EntityID, m Mask) {
	if _, ok := p.masks[id]; !ok {
		return
	}
	p.masks[id] = m
}

// Len returns the number of live entities.
func (p *EntityPool) Len() int {
	return len(p.masks)
}

// Each calls fn for every live entity in creation order. Entities destroyed
// by fn are skipped if not yet visited; entities created by fn are not visited.
func (p *EntityPool) Each(fn func(EntityID, Mask)) {
	p.iterating++
	defer func() {
		p.iterating--
		if p.iterating == 0 && p.needsCompact() {
			p.compact()
		}
	}()
	n := len(p.order)
	for i := 0; i < n; i++ {
		id := p.order[i]
		m, ok := p.masks[id]
		if !ok {
			continue
		}
		fn(id, m)
	}
}

// Entities returns a snapshot of live entities in creation order.
func (p *EntityPool) Entities() []EntityID {
	out := make([]EntityID, 0, len(p.masks))
	p.Each(func(id EntityID, _ Mask) {
		out = append(out, id)
	})
	return out
}
