//go:build pm_substates

package pm

// Sub-state build: two extra variants per class, still shallowest to
// deepest. Ordinal order is part of the policy contract (deeper saves
// more, wakes slower).
const (
	StateCPULowPower State = iota
	StateCPULowPower1
	StateCPULowPower2
	StateDeepSleep
	StateDeepSleep1
	StateDeepSleep2

	// NumStates bounds the registry and sizes per-state arrays.
	NumStates
)

const firstDeepState = StateDeepSleep

var stateNames = [NumStates]string{
	StateCPULowPower:  "CPU_LOW_POWER",
	StateCPULowPower1: "CPU_LOW_POWER_1",
	StateCPULowPower2: "CPU_LOW_POWER_2",
	StateDeepSleep:    "DEEP_SLEEP",
	StateDeepSleep1:   "DEEP_SLEEP_1",
	StateDeepSleep2:   "DEEP_SLEEP_2",
}
