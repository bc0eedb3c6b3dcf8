package clock

import "time"

// DefaultMaxDelta caps a single step. Larger steps make penetration
// correction unstable.
const DefaultMaxDelta = 100 * time.Millisecond

// Clock turns wall-clock readings into simulation deltas: clamped to
// MaxDelta, scaled by the time scale, zero while paused.
type Clock struct {
	MaxDelta time.Duration

	last      time.Time
	scale     float64
	paused    bool
	elapsed   time.Duration
	frames    uint64
	lastDelta time.Duration
}

func New(maxDelta time.Duration) *Clock {
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	return &Clock{MaxDelta: maxDelta, scale: 1}
}

// Tick records now and returns the delta for this frame. The first call
// only establishes the reference point and returns 0.
func (c *Clock) Tick(now time.Time) time.Duration {
	c.frames++
	if c.last.IsZero() {
		c.last = now
		c.lastDelta = 0
		return 0
	}
	raw := now.Sub(c.last)
	c.last = now
	if raw < 0 {
		raw = 0
	}
	if raw > c.MaxDelta {
		raw = c.MaxDelta
	}
	dt := time.Duration(float64(raw) * c.TimeScale())
	c.elapsed += dt
	c.lastDelta = dt
	return dt
}

// SetTimeScale sets the scale factor; negative values are treated as 0.
func (c *Clock) SetTimeScale(s float64) {
	if s < 0 {
		s = 0
	}
	c.scale = s
}

// TimeScale returns the effective scale, 0 while paused.
func (c *Clock) TimeScale() float64 {
	if c.paused {
		return 0
	}
	return c.scale
}

func (c *Clock) Pause()       { c.paused = true }
func (c *Clock) Resume()      { c.paused = false }
func (c *Clock) Paused() bool { return c.paused }

// Elapsed is the total simulated time.
func (c *Clock) Elapsed() time.Duration { return c.elapsed }

// Delta is the value returned by the last Tick.
func (c *Clock) Delta() time.Duration { return c.lastDelta }

// Frames counts Tick calls.
func (c *Clock) Frames() uint64 { return c.frames }

// Reset clears elapsed time and the frame counter.
func (c *Clock) Reset() {
	c.elapsed = 0
	c.frames = 0
	c.last = time.Time{}
}
