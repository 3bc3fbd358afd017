//go:build !pm_substates

package pm

// Default build: one CPU low-power state and one SOC deep-sleep state.
// Build with -tags pm_substates for the sub-state variants.
const (
	StateCPULowPower State = iota
	StateDeepSleep

	// NumStates bounds the registry and sizes per-state arrays.
	NumStates
)

const firstDeepState = StateDeepSleep

var stateNames = [NumStates]string{
	StateCPULowPower: "CPU_LOW_POWER",
	StateDeepSleep:   "DEEP_SLEEP",
}
