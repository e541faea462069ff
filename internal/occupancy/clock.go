package occupancy

import "time"

// Clock supplies the current time. Every temporal decision in this
// package goes through an injected Clock (or an explicit now argument)
// so classification and aggregation are deterministic under test.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by the system time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
