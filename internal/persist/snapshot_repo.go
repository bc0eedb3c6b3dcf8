package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"go.uber.org/zap"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// EntityState is the persisted view of one entity. Only entities with a
// Position are captured.
type EntityState struct {
	Entity      ecs.EntityID
	Prefab      string
	Label       string
	X, Y        float64
	HasVelocity bool
	VX, VY      float64
}

// Capture reads the saveable state of every positioned entity in creation order.
func Capture(w *ecs.World) []EntityState {
	ids := w.EntitiesWith(ecs.KindOf[component.Position]())
	states := make([]EntityState, 0, len(ids))
	for _, id := range ids {
		pos, _ := ecs.GetComponent[component.Position](w, id)
		s := EntityState{Entity: id, X: pos.X, Y: pos.Y}
		if t, ok := ecs.GetComponent[component.Template](w, id); ok {
			s.Prefab = t.Prefab
		}
		if n, ok := ecs.GetComponent[component.Name](w, id); ok {
			s.Label = n.Value
		}
		if v, ok := ecs.GetComponent[component.Velocity](w, id); ok {
			s.HasVelocity = true
			s.VX, s.VY = v.X, v.Y
		}
		states = append(states, s)
	}
	return states
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save replaces the named snapshot (delete + bulk copy) in one transaction.
func (r *SnapshotRepo) Save(ctx context.Context, name string, states []EntityState) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM world_snapshots WHERE name = $1`, name); err != nil {
		return fmt.Errorf("snapshot clear: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"world_snapshots"},
		[]string{"name", "seq", "entity_id", "prefab", "label", "x", "y", "has_vel", "vx", "vy"},
		pgx.CopyFromSlice(len(states), func(i int) ([]any, error) {
			s := states[i]
			return []any{name, int32(i), int64(s.Entity), s.Prefab, s.Label, s.X, s.Y, s.HasVelocity, s.VX, s.VY}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("snapshot copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("snapshot commit: %w", err)
	}
	r.db.log.Info("snapshot saved", zap.String("name", name), zap.Int64("entities", n))
	return nil
}

// Load returns the rows of the named snapshot in capture order.
func (r *SnapshotRepo) Load(ctx context.Context, name string) ([]EntityState, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT entity_id, prefab, label, x, y, has_vel, vx, vy
		 FROM world_snapshots
		 WHERE name = $1
		 ORDER BY seq`, name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EntityState
	for rows.Next() {
		var (
			s  EntityState
			id int64
		)
		if err := rows.Scan(&id, &s.Prefab, &s.Label, &s.X, &s.Y, &s.HasVelocity, &s.VX, &s.VY); err != nil {
			return nil, err
		}
		s.Entity = ecs.EntityID(id)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, name)
	}
	return result, nil
}

// Restore spawns one bare entity per state. Ids are reissued by the world,
// so the returned map takes each saved id to its new one.
func Restore(w *ecs.World, states []EntityState) map[ecs.EntityID]ecs.EntityID {
	remap := make(map[ecs.EntityID]ecs.EntityID, len(states))
	for _, s := range states {
		id := w.CreateEntity()
		Apply(w, id, s)
		remap[s.Entity] = id
	}
	return remap
}

// Apply writes the saved position, label and velocity onto an existing
// entity. A velocity already present keeps its MaxSpeed.
func Apply(w *ecs.World, id ecs.EntityID, s EntityState) {
	if pos, ok := ecs.GetComponent[component.Position](w, id); ok {
		pos.X, pos.Y = s.X, s.Y
	} else {
		ecs.AddComponent(w, id, &component.Position{X: s.X, Y: s.Y})
	}
	if s.Prefab != "" && !ecs.HasComponentOf[component.Template](w, id) {
		ecs.AddComponent(w, id, &component.Template{Prefab: s.Prefab})
	}
	if s.Label != "" {
		ecs.AddComponent(w, id, &component.Name{Value: s.Label})
	}
	if !s.HasVelocity {
		return
	}
	if v, ok := ecs.GetComponent[component.Velocity](w, id); ok {
		v.X, v.Y = s.VX, s.VY
	} else {
		ecs.AddComponent(w, id, &component.Velocity{X: s.VX, Y: s.VY})
	}
}
