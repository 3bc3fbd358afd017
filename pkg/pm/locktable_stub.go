//go:build pm_nolock

package pm

// LockTable stub for builds without state-lock support: every compiled-in
// state is always selectable and the mutators are rejected outright, so a
// build that forgot the feature fails loudly instead of silently ignoring
// an application's disable call.
type LockTable struct{}

func (*LockTable) DisableState(s State) {
	mustValid(s, "DisableState")
	panic("pm: state lock support not compiled in (built with pm_nolock)")
}

func (*LockTable) EnableState(s State) {
	mustValid(s, "EnableState")
	panic("pm: state lock support not compiled in (built with pm_nolock)")
}

func (*LockTable) IsStateEnabled(s State) bool {
	mustValid(s, "IsStateEnabled")
	return true
}
