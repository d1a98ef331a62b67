package runtime

import "time"

// DefaultCadence is the interval between two revealed characters.
const DefaultCadence = 50 * time.Millisecond

// RevealClock accumulates frame time and fires at a fixed cadence.
//
// When it fires the accumulator drops back to zero, not to the overflow, so a single
// oversized frame never produces more than one reveal.
type RevealClock struct {
	cadence     time.Duration
	accumulated time.Duration
}

// NewRevealClock creates a clock firing every cadence. Non-positive cadences fall back to DefaultCadence.
func NewRevealClock(cadence time.Duration) *RevealClock {
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	return &RevealClock{cadence: cadence}
}

// Advance adds elapsed to the accumulator and reports whether the cadence was exceeded.
func (c *RevealClock) Advance(elapsed time.Duration) bool {
	if elapsed > 0 {
		c.accumulated += elapsed
	}
	if c.accumulated > c.cadence {
		c.accumulated = 0
		return true
	}
	return false
}

// Reset drops any accumulated time.
func (c *RevealClock) Reset() {
	c.accumulated = 0
}

// Cadence returns the firing interval.
func (c *RevealClock) Cadence() time.Duration {
	return c.cadence
}

// Accumulated returns the time gathered since the last fire.
func (c *RevealClock) Accumulated() time.Duration {
	return c.accumulated
}
