// Package cooldown implements the time gates that rate-limit canvas
// actions: a simple elapsed-time check for image generation and a bounded
// per-client tracker that suppresses repeated letter input.
package cooldown

import "time"

// Gate decides whether enough time has passed since a previous action.
// The zero value (interval 0) always allows.
type Gate struct {
	Interval time.Duration
}

// Allowed reports whether an action gated on last may run at now. A
// non-positive interval disables the gate entirely.
func (g Gate) Allowed(last, now time.Time) bool {
	if g.Interval <= 0 {
		return true
	}
	return now.Sub(last) > g.Interval
}
