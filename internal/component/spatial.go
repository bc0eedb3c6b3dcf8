package component

// Position is the entity's world-space location in pixels.
// Pure data, zero methods; systems mutate it in place.
type Position struct {
	X float64
	Y float64
}

// Velocity in pixels per second. MaxSpeed > 0 caps the speed after movement.
type Velocity struct {
	X        float64
	Y        float64
	MaxSpeed float64
}

// Name is a human-readable label, used by snapshots and logs.
type Name struct {
	Value string
}

// Template records the prefab an entity was spawned from, so a snapshot can
// rebuild the parts it does not store.
type Template struct {
	Prefab string
}
