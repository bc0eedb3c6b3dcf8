package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandlerCallsLuaWithEntityIDs(t *testing.T) {
	e, err := NewEngine("", nil)
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.LoadString(`
hits = 0
last_self = 0
last_other = 0
function on_hit(self, other)
  hits = hits + 1
  last_self = self
  last_other = other
end
`))

	h, err := e.Handler("on_hit")
	require.NoError(t, err)
	h(3, 7)
	h(3, 9)

	assert.Equal(t, 2.0, e.Global("hits"))
	assert.Equal(t, 3.0, e.Global("last_self"))
	assert.Equal(t, 9.0, e.Global("last_other"))
}

func TestHandlerNotFound(t *testing.T) {
	e, err := NewEngine("", nil)
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.LoadString(`not_a_function = 5`))

	_, err = e.Handler("missing")
	assert.ErrorIs(t, err, ErrHandlerNotFound)
	_, err = e.Handler("not_a_function")
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestHandlerErrorIsLoggedNotRaised(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e, err := NewEngine("", zap.New(core))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.LoadString(`function broken(self, other) error("boom") end`))
	h, err := e.Handler("broken")
	require.NoError(t, err)

	assert.NotPanics(t, func() { h(1, 2) })
	errs := logs.FilterMessage("lua handler error").All()
	require.Len(t, errs, 1)
	assert.Equal(t, "broken", errs[0].ContextMap()["func"])
}

func TestNewEngineLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`order = "a"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`order = order .. "b"; loaded = 1`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0o644))

	e, err := NewEngine(dir, nil)
	require.NoError(t, err)
	defer e.Close()
	assert.Equal(t, 1.0, e.Global("loaded"))

	missing, err := NewEngine(filepath.Join(dir, "nope"), nil)
	require.NoError(t, err)
	missing.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.lua"), []byte(`this is not lua`), 0o644))
	_, err = NewEngine(dir, nil)
	assert.ErrorContains(t, err, "c.lua")
}

func TestLogBindings(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e, err := NewEngine("", zap.New(core))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.LoadString(`log.info("hello"); log.warn("careful")`))
	all := logs.All()
	require.Len(t, all, 2)
	assert.Equal(t, "hello", all[0].ContextMap()["msg"])
	assert.Equal(t, zapcore.WarnLevel, all[1].Level)
}
