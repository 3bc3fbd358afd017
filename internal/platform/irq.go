package platform

import "sync/atomic"

// IRQLine models the master interrupt enable bit. Enable/disable are the
// simulated PRIMASK-style toggles; the bit is atomic because the manager
// reads it from the idle path while tests observe it from outside.
type IRQLine struct {
	enabled atomic.Bool
}

// DisableIRQ masks all interrupts.
func (l *IRQLine) DisableIRQ() {
	l.enabled.Store(false)
}

// EnableIRQ unmasks interrupts.
func (l *IRQLine) EnableIRQ() {
	l.enabled.Store(true)
}

// IRQEnabled reports the current mask state.
func (l *IRQLine) IRQEnabled() bool {
	return l.enabled.Load()
}
