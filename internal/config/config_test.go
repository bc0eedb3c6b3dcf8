package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[simulation]
tick_rate = "20ms"
time_scale = 0.5

[logging]
level = "debug"

[[scene.spawn]]
prefab = "crate"
x = 10
y = 20
count = 3
step_x = 40
`))
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, 0.5, cfg.Simulation.TimeScale)
	assert.Equal(t, 100*time.Millisecond, cfg.Simulation.MaxDelta)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 980.0, cfg.Physics.Gravity)
	assert.False(t, cfg.Database.Enabled)

	require.Len(t, cfg.Scene.Spawn, 1)
	assert.Equal(t, SpawnConfig{Prefab: "crate", X: 10, Y: 20, Count: 3, StepX: 40}, cfg.Scene.Spawn[0])
}

func TestParseRejectsBadValues(t *testing.T) {
	_, err := Parse([]byte("[simulation]\ntime_scale = -1\n"))
	assert.ErrorContains(t, err, "time_scale")

	_, err = Parse([]byte("[[scene.spawn]]\nx = 1\n"))
	assert.ErrorContains(t, err, "prefab is required")

	_, err = Parse([]byte("[simulation\n"))
	assert.ErrorContains(t, err, "parse config")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simcore.toml")
	require.NoError(t, os.WriteFile(path, []byte("[physics]\ngravity = 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Physics.Gravity)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
