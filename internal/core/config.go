package core

import "time"

// DefaultTickRate is the simulation rate when none is configured.
const DefaultTickRate = 60

// RuntimeConfig is handed to a session when it starts.
type RuntimeConfig struct {
	TickRate int   // Ticks per second
	Seed     int64 // Seed of the first game, 0 picks one from the clock
}

// Resolved fills in a missing tick rate or seed.
func (c RuntimeConfig) Resolved() RuntimeConfig {
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// TickInterval is the wall time of one tick.
func (c RuntimeConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(max(1, c.TickRate))
}
