package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ping struct{ N int }
type pong struct{ N int }

func TestEventsAreReadableNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.N) })

	Emit(b, ping{N: 1})
	Emit(b, ping{N: 2})
	assert.Equal(t, 2, Pending[ping](b))
	assert.Zero(t, b.DispatchAll())
	assert.Empty(t, got)

	b.SwapBuffers()
	assert.Equal(t, 2, b.DispatchAll())
	assert.Equal(t, []int{1, 2}, got)
	assert.Zero(t, Pending[ping](b))

	// front buffer is cleared by the next swap
	b.SwapBuffers()
	assert.Zero(t, b.DispatchAll())
	assert.Equal(t, []int{1, 2}, got)
}

func TestDispatchOrderFollowsFirstEmission(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(pong) { order = append(order, "pong") })
	Subscribe(b, func(ping) { order = append(order, "ping") })

	Emit(b, pong{})
	Emit(b, ping{})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []string{"pong", "ping"}, order)
}

func TestDrainWithoutHandlers(t *testing.T) {
	b := NewBus()
	Emit(b, pong{N: 7})
	b.SwapBuffers()
	assert.Equal(t, []pong{{N: 7}}, Drain[pong](b))
	assert.Empty(t, Drain[ping](b))
}
