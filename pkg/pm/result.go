package pm

import "fmt"

// SuspendResult is the tagged outcome of one suspend attempt. The zero
// value means no low-power state was entered. Only a handled result
// carries the postcondition that the suspend hook re-enabled interrupts
// before returning; callers must branch on Handled before touching the
// interrupt controller themselves.
type SuspendResult struct {
	handled bool
	state   State
}

// NotHandled reports that no low-power state was entered and interrupts
// were left exactly as the caller set them (disabled).
var NotHandled = SuspendResult{}

// Entered builds the result for a successfully entered state. Calling it
// implies the hook has already re-enabled interrupts.
func Entered(s State) SuspendResult {
	mustValid(s, "Entered")
	return SuspendResult{handled: true, state: s}
}

// Handled reports whether a low-power state was entered and exited.
func (r SuspendResult) Handled() bool {
	return r.handled
}

// InterruptsRestored reports whether the suspend hook re-enabled
// interrupts on the way out. True exactly for handled results; a
// NotHandled return leaves the interrupt state as the caller found it.
func (r SuspendResult) InterruptsRestored() bool {
	return r.handled
}

// State returns the entered state. The second return is false for
// NotHandled, in which case the state value is meaningless.
func (r SuspendResult) State() (State, bool) {
	return r.state, r.handled
}

// Deep reports whether a SOC deep-sleep state was entered.
func (r SuspendResult) Deep() bool {
	return r.handled && r.state.Deep()
}

func (r SuspendResult) String() string {
	if !r.handled {
		return "NOT_HANDLED"
	}
	if r.state.Deep() {
		return fmt.Sprintf("DEEP_SLEEP(%s)", r.state)
	}
	return fmt.Sprintf("LOW_POWER_STATE(%s)", r.state)
}
