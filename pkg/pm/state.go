// Package pm implements the power-state control layer between the kernel's
// idle scheduler and the SoC-specific code that physically enters low-power
// states. It owns the candidate state registry, the runtime state lock
// table, the idle-exit notification gate and the suspend/resume protocol;
// the actual register sequences belong to the platform hook implementation.
package pm

import (
	"fmt"
	"strings"
)

// State identifies one candidate low-power state, ordered from shallowest
// to deepest. The set of states is fixed at build time (see states_*.go);
// ordinals are contiguous, 0-based and strictly below NumStates.
type State uint8

// Valid reports whether s names a state compiled into this build.
func (s State) Valid() bool {
	return s < NumStates
}

// Deep reports whether s is a SOC deep-sleep state rather than a CPU
// low-power state.
func (s State) Deep() bool {
	return s.Valid() && s >= firstDeepState
}

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("STATE_%d", uint8(s))
	}
	return stateNames[s]
}

// ParseState resolves a state name (as printed by String, case-insensitive)
// to its ordinal. Used by administrative tooling; the hot path never parses.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if strings.EqualFold(name, n) {
			return State(s), nil
		}
	}
	return 0, fmt.Errorf("unknown power state %q (compiled in: %s)", name, strings.Join(stateNames[:], ", "))
}

func mustValid(s State, op string) {
	if !s.Valid() {
		panic(fmt.Sprintf("pm: %s: power state %d not compiled in (max %d)", op, uint8(s), uint8(NumStates)-1))
	}
}
