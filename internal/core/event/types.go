package event

import "github.com/l1jgo/simcore/internal/core/ecs"

// Collision is emitted for every solid contact resolved in a tick.
type Collision struct {
	A, B    ecs.EntityID
	NormalX float64
	NormalY float64
	Depth   float64
}

// TriggerEnter is emitted when a pair involving a trigger collider overlaps.
type TriggerEnter struct {
	A, B ecs.EntityID
}

// EntityDestroyed is emitted by the cleanup system for each flushed entity.
type EntityDestroyed struct {
	EntityID ecs.EntityID
}
