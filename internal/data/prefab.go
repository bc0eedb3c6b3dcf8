package data

import (
	"errors"
	"fmt"
	"os"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"gopkg.in/yaml.v3"
)

var ErrUnknownPrefab = errors.New("unknown prefab")

// HandlerResolver turns a handler name from the prefab file into a callback.
// *scripting.Engine implements it.
type HandlerResolver interface {
	Handler(name string) (component.Handler, error)
}

// PrefabEntry is one named entity template. Every block is optional.
type PrefabEntry struct {
	Name      string          `yaml:"name"`
	Label     string          `yaml:"label"`
	Velocity  *VelocityBlock  `yaml:"velocity"`
	RigidBody *RigidBodyBlock `yaml:"rigid_body"`
	Collider  *ColliderBlock  `yaml:"collider"`
	Health    *HealthBlock    `yaml:"health"`
}

type VelocityBlock struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	MaxSpeed float64 `yaml:"max_speed"`
}

// RigidBodyBlock uses pointers so an omitted field keeps the NewRigidBody default.
type RigidBodyBlock struct {
	Mass         float64  `yaml:"mass"`
	Static       bool     `yaml:"static"`
	UseGravity   *bool    `yaml:"use_gravity"`
	GravityScale *float64 `yaml:"gravity_scale"`
	Friction     *float64 `yaml:"friction"`
	Drag         *float64 `yaml:"drag"`
	Restitution  *float64 `yaml:"restitution"`
}

type ColliderBlock struct {
	Shape          string  `yaml:"shape"` // "box" (default) or "circle"
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	Radius         float64 `yaml:"radius"`
	OffsetX        float64 `yaml:"offset_x"`
	OffsetY        float64 `yaml:"offset_y"`
	Layer          uint8   `yaml:"layer"`
	Mask           *uint32 `yaml:"mask"`
	Trigger        bool    `yaml:"trigger"`
	OnCollision    string  `yaml:"on_collision"`
	OnTriggerEnter string  `yaml:"on_trigger_enter"`
	OnTriggerExit  string  `yaml:"on_trigger_exit"`
}

type HealthBlock struct {
	Max            float64 `yaml:"max"`
	Regeneration   float64 `yaml:"regeneration"`
	DestroyOnDeath bool    `yaml:"destroy_on_death"`
}

// PrefabTable holds prefab templates keyed by name.
type PrefabTable struct {
	prefabs map[string]*PrefabEntry
}

// LoadPrefabTable loads prefabs.yaml.
func LoadPrefabTable(path string) (*PrefabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefab list: %w", err)
	}
	return ParsePrefabTable(raw)
}

func ParsePrefabTable(raw []byte) (*PrefabTable, error) {
	var entries []PrefabEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse prefab list: %w", err)
	}
	t := &PrefabTable{prefabs: make(map[string]*PrefabEntry, len(entries))}
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("prefab #%d: missing name", i)
		}
		if _, dup := t.prefabs[e.Name]; dup {
			return nil, fmt.Errorf("prefab %q defined twice", e.Name)
		}
		if c := e.Collider; c != nil {
			if c.Shape != "" && c.Shape != "box" && c.Shape != "circle" {
				return nil, fmt.Errorf("prefab %q: unknown collider shape %q", e.Name, c.Shape)
			}
			if c.Layer > component.MaxLayer {
				return nil, fmt.Errorf("prefab %q: collider layer %d out of range", e.Name, c.Layer)
			}
		}
		t.prefabs[e.Name] = e
	}
	return t, nil
}

// Get returns the prefab with the given name, or nil if none.
func (t *PrefabTable) Get(name string) *PrefabEntry {
	return t.prefabs[name]
}

// Count returns the total number of prefabs loaded.
func (t *PrefabTable) Count() int {
	return len(t.prefabs)
}

// Spawn creates an entity from the named prefab at (x, y). Handler names are
// resolved before the entity exists, so a failed spawn leaves the world untouched.
// resolver may be nil when no prefab names a handler.
func (t *PrefabTable) Spawn(w *ecs.World, name string, x, y float64, resolver HandlerResolver) (ecs.EntityID, error) {
	p := t.prefabs[name]
	if p == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPrefab, name)
	}

	var col *component.Collider
	if p.Collider != nil {
		var err error
		if col, err = p.Collider.build(resolver); err != nil {
			return 0, fmt.Errorf("spawn %q: %w", name, err)
		}
	}

	id := w.CreateEntity()
	ecs.AddComponent(w, id, &component.Position{X: x, Y: y})
	ecs.AddComponent(w, id, &component.Template{Prefab: p.Name})
	if p.Label != "" {
		ecs.AddComponent(w, id, &component.Name{Value: p.Label})
	}
	if v := p.Velocity; v != nil {
		ecs.AddComponent(w, id, &component.Velocity{X: v.X, Y: v.Y, MaxSpeed: v.MaxSpeed})
	}
	if p.RigidBody != nil {
		ecs.AddComponent(w, id, p.RigidBody.build())
	}
	if col != nil {
		ecs.AddComponent(w, id, col)
	}
	if h := p.Health; h != nil {
		hp := component.NewHealth(h.Max)
		hp.Regeneration = h.Regeneration
		hp.DestroyOnDeath = h.DestroyOnDeath
		ecs.AddComponent(w, id, hp)
	}
	return id, nil
}

func (b *RigidBodyBlock) build() *component.RigidBody {
	rb := component.NewRigidBody(b.Mass)
	rb.Static = b.Static
	if b.UseGravity != nil {
		rb.UseGravity = *b.UseGravity
	}
	if b.GravityScale != nil {
		rb.GravityScale = *b.GravityScale
	}
	if b.Friction != nil {
		rb.Friction = *b.Friction
	}
	if b.Drag != nil {
		rb.Drag = *b.Drag
	}
	if b.Restitution != nil {
		rb.Restitution = *b.Restitution
	}
	return rb
}

func (b *ColliderBlock) build(resolver HandlerResolver) (*component.Collider, error) {
	var c *component.Collider
	if b.Shape == "circle" {
		c = component.NewCircleCollider(b.Radius)
	} else {
		c = component.NewBoxCollider(b.Width, b.Height)
	}
	c.OffsetX, c.OffsetY = b.OffsetX, b.OffsetY
	c.Layer = b.Layer
	if b.Mask != nil {
		c.Mask = *b.Mask
	}
	c.Trigger = b.Trigger

	for _, h := range []struct {
		name string
		dst  *component.Handler
	}{
		{b.OnCollision, &c.OnCollision},
		{b.OnTriggerEnter, &c.OnTriggerEnter},
		{b.OnTriggerExit, &c.OnTriggerExit},
	} {
		if h.name == "" {
			continue
		}
		if resolver == nil {
			return nil, fmt.Errorf("handler %q: no script engine", h.name)
		}
		fn, err := resolver.Handler(h.name)
		if err != nil {
			return nil, err
		}
		*h.dst = fn
	}
	return c, nil
}
