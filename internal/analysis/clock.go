package analysis

import "github.com/jonboulle/clockwork"

// clock is the time source for windowed queries; tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used to compute window cutoffs. Pass nil to
// reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
