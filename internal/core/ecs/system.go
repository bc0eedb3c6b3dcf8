package ecs

import "time"

// System is a named unit of behaviour driven by the World. Systems never own
// entities or components; they read and write them through the World.
//
// Beyond the methods below a system opts into lifecycle hooks by implementing
// any of Initializer, Updater, Renderer and Destroyer.
type System interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	// Bind sets the World back-reference. Called by World.AddSystem.
	Bind(w *World)
}

// Initializer runs once, right after the system is added to a World.
type Initializer interface {
	Init()
}

// Updater runs every tick while the system is enabled.
type Updater interface {
	Update(dt time.Duration)
}

// Renderer runs every frame after all updates while the system is enabled.
type Renderer interface {
	Render()
}

// Destroyer runs when the system is removed or the World is closed.
type Destroyer interface {
	Destroy()
}

// BaseSystem implements the bookkeeping part of System. Embed it and set the
// name with NewBaseSystem.
type BaseSystem struct {
	name     string
	world    *World
	disabled bool
}

func NewBaseSystem(name string) BaseSystem {
	return BaseSystem{name: name}
}

func (b *BaseSystem) Name() string       { return b.name }
func (b *BaseSystem) World() *World      { return b.world }
func (b *BaseSystem) Enabled() bool      { return !b.disabled }
func (b *BaseSystem) SetEnabled(on bool) { b.disabled = !on }
func (b *BaseSystem) Bind(w *World)      { b.world = w }
