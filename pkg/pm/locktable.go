//go:build !pm_nolock

package pm

import "sync/atomic"

// LockTable tracks which power states the automatic policy may select.
// Every state starts enabled; only explicit DisableState calls change
// that, never the suspend path itself. Reads happen on the idle entry
// path with interrupts masked while writes come from ordinary task
// context, so all flags live in one atomic word to rule out torn reads.
type LockTable struct {
	disabled atomic.Uint32 // bit n set = state n locked out
}

// DisableState removes s from the set of states the policy may select.
// Idempotent. An invalid state is a build/config mismatch and panics.
func (t *LockTable) DisableState(s State) {
	mustValid(s, "DisableState")
	t.disabled.Or(stateBit(s))
}

// EnableState makes s selectable again. Idempotent.
func (t *LockTable) EnableState(s State) {
	mustValid(s, "EnableState")
	t.disabled.And(^stateBit(s))
}

// IsStateEnabled reports whether the policy may select s. Application
// supplied suspend hooks must consult this before committing to a state;
// the framework only verifies after the fact.
func (t *LockTable) IsStateEnabled(s State) bool {
	mustValid(s, "IsStateEnabled")
	return t.disabled.Load()&stateBit(s) == 0
}

func stateBit(s State) uint32 {
	return uint32(1) << s
}
