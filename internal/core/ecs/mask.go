package ecs

// MaxComponentTypes is the number of distinct component types a World can
// register. One bit per type in a Mask.
const MaxComponentTypes = 64

// Mask is a set of component types. Bit i is set iff the owner has a
// component whose ComponentID is i.
type Mask uint64

// Bit returns the mask with only id's bit set.
func Bit(id ComponentID) Mask {
	return Mask(1) << uint(id)
}

func (m Mask) Set(id ComponentID) Mask   { return m | Bit(id) }
func (m Mask) Clear(id ComponentID) Mask { return m &^ Bit(id) }
func (m Mask) Has(id ComponentID) bool   { return m&Bit(id) != 0 }

// Contains reports whether every bit of sub is also set in m.
func (m Mask) Contains(sub Mask) bool {
	return m&sub == sub
}

// Intersects reports whether m and o share at least one bit.
func (m Mask) Intersects(o Mask) bool {
	return m&o != 0
}

// Matches is the query predicate: all required bits present, no excluded bit present.
func (m Mask) Matches(required, excluded Mask) bool {
	return m.Contains(required) && !m.Intersects(excluded)
}
