package frameloop

import "time"

// Clock is a monotonic elapsed-time source in seconds.
type Clock interface {
	Elapsed() float32
}

// MonotonicClock starts on its first sample and is never reset or paused.
type MonotonicClock struct {
	start   time.Time
	started bool
	now     func() time.Time
}

// NewMonotonicClock returns a clock backed by time.Now.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

// Elapsed returns seconds since the first call.
func (c *MonotonicClock) Elapsed() float32 {
	now := c.now()
	if !c.started {
		c.start = now
		c.started = true
	}
	return float32(now.Sub(c.start).Seconds())
}

// ManualClock is advanced explicitly. Used for deterministic stepping.
type ManualClock struct {
	T float32
}

// Elapsed returns the current time.
func (c *ManualClock) Elapsed() float32 {
	return c.T
}

// Advance moves the clock forward by dt seconds.
func (c *ManualClock) Advance(dt float32) {
	c.T += dt
}
