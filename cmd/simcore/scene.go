package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/l1jgo/simcore/internal/config"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	"github.com/l1jgo/simcore/internal/data"
	"github.com/l1jgo/simcore/internal/persist"
	"github.com/l1jgo/simcore/internal/system"
	"go.uber.org/zap"
)

// buildWorld registers the systems in pipeline order: deliver last tick's
// events, integrate forces, move, collide, apply health, then flush destroys.
func buildWorld(cfg *config.Config, log *zap.Logger) (*ecs.World, error) {
	bus := event.NewBus()
	w := ecs.NewWorld(log)

	for _, s := range []ecs.System{
		system.NewEventDispatchSystem(bus),
		system.NewPhysicsSystem(cfg.Physics.Gravity),
		system.NewMovementSystem(),
		system.NewCollisionSystem(bus),
		system.NewHealthSystem(),
		system.NewCleanupSystem(bus),
	} {
		if err := w.AddSystem(s); err != nil {
			return nil, err
		}
	}

	event.Subscribe(bus, func(ev event.Collision) {
		log.Debug("collision",
			zap.Uint64("a", uint64(ev.A)),
			zap.Uint64("b", uint64(ev.B)),
			zap.Float64("depth", ev.Depth))
	})
	event.Subscribe(bus, func(ev event.TriggerEnter) {
		log.Debug("trigger enter", zap.Uint64("a", uint64(ev.A)), zap.Uint64("b", uint64(ev.B)))
	})
	return w, nil
}

// spawnScene creates every configured spawn and returns the entity count.
func spawnScene(w *ecs.World, prefabs *data.PrefabTable, resolver data.HandlerResolver, scene config.SceneConfig) (int, error) {
	n := 0
	for _, s := range scene.Spawn {
		count := max(s.Count, 1)
		for i := 0; i < count; i++ {
			x := s.X + float64(i)*s.StepX
			y := s.Y + float64(i)*s.StepY
			if _, err := prefabs.Spawn(w, s.Prefab, x, y, resolver); err != nil {
				return n, fmt.Errorf("scene: %w", err)
			}
			n++
		}
	}
	return n, nil
}

// snapshotLoader is the read half of persist.SnapshotRepo.
type snapshotLoader interface {
	Load(ctx context.Context, name string) ([]persist.EntityState, error)
}

// populate fills w from the named snapshot when loader is set, and from the
// configured scene otherwise or when the snapshot does not exist yet.
func populate(ctx context.Context, w *ecs.World, loader snapshotLoader, name string,
	prefabs *data.PrefabTable, resolver data.HandlerResolver, scene config.SceneConfig, log *zap.Logger,
) (int, error) {
	if loader != nil {
		states, err := loader.Load(ctx, name)
		switch {
		case err == nil:
			n, err := restoreScene(w, prefabs, resolver, states)
			if err != nil {
				return n, err
			}
			log.Info("snapshot restored", zap.String("name", name), zap.Int("entities", n))
			return n, nil
		case errors.Is(err, persist.ErrSnapshotNotFound):
			log.Info("no snapshot yet, spawning scene", zap.String("name", name))
		default:
			return 0, fmt.Errorf("load snapshot %q: %w", name, err)
		}
	}
	return spawnScene(w, prefabs, resolver, scene)
}

// restoreScene respawns each saved entity from its prefab, then overwrites the
// saved state. Entities saved without a prefab come back bare.
func restoreScene(w *ecs.World, prefabs *data.PrefabTable, resolver data.HandlerResolver, states []persist.EntityState) (int, error) {
	for i, s := range states {
		if s.Prefab == "" {
			persist.Restore(w, states[i:i+1])
			continue
		}
		id, err := prefabs.Spawn(w, s.Prefab, s.X, s.Y, resolver)
		if err != nil {
			return i, fmt.Errorf("restore: %w", err)
		}
		persist.Apply(w, id, s)
	}
	return len(states), nil
}
