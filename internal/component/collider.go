package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// Shape selects the narrow-phase test for a collider.
type Shape uint8

const (
	ShapeBox Shape = iota
	ShapeCircle
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeCircle:
		return "circle"
	}
	return "unknown"
}

// AllLayers is the default collision mask.
const AllLayers uint32 = 0xFFFFFFFF

// MaxLayer is the highest usable layer index.
const MaxLayer = 31

// Handler is a collision callback attached to a collider. self is the
// collider's own entity.
type Handler func(self, other ecs.EntityID)

// Collider defines collision geometry and response hooks.
//
// Box colliders span [pos+offset, pos+offset+size]. Circle colliders use
// Width/2 as radius with the circle inscribed in the same box.
type Collider struct {
	Shape   Shape
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64

	Layer   uint8  // 0..MaxLayer
	Mask    uint32 // layers this collider interacts with
	Trigger bool   // report overlaps, no physical response

	OnCollision    Handler
	OnTriggerEnter Handler
	// OnTriggerExit is never fired by the collision system, which keeps no
	// contact state between frames.
	OnTriggerExit Handler
}

func NewBoxCollider(width, height float64) *Collider {
	return &Collider{
		Shape:  ShapeBox,
		Width:  width,
		Height: height,
		Mask:   AllLayers,
	}
}

// NewCircleCollider builds a circle of the given radius.
func NewCircleCollider(radius float64) *Collider {
	return &Collider{
		Shape:  ShapeCircle,
		Width:  radius * 2,
		Height: radius * 2,
		Mask:   AllLayers,
	}
}

// Radius is half the collider width.
func (c *Collider) Radius() float64 {
	return c.Width / 2
}

// Accepts reports whether c's mask includes layer.
func (c *Collider) Accepts(layer uint8) bool {
	if layer > MaxLayer {
		return false
	}
	return c.Mask&(1<<layer) != 0
}

// CanCollide is the symmetric layer test: each side must accept the other.
func CanCollide(a, b *Collider) bool {
	return a.Accepts(b.Layer) && b.Accepts(a.Layer)
}
