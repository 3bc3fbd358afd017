//go:build !pm_nodebug

package pm

import (
	"fmt"
	"io"
	"time"
)

// residency accumulates per-state entry counts and cumulative time in
// state for diagnostics. Only the idle path touches it, so no locking;
// the dump is advisory and may race a concurrent cycle by one entry.
type residency struct {
	now     func() time.Time
	entered time.Time
	state   State
	active  bool
	counts  [NumStates]uint64
	resided [NumStates]time.Duration
}

func (r *residency) init(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.now = now
}

func (r *residency) enter(s State) {
	r.counts[s]++
	r.state = s
	r.entered = r.now()
	r.active = true
}

func (r *residency) exit() {
	if !r.active {
		return
	}
	r.resided[r.state] += r.now().Sub(r.entered)
	r.active = false
}

func (r *residency) dump(w io.Writer) {
	fmt.Fprintln(w, "power state residency:")
	for s := State(0); s < NumStates; s++ {
		fmt.Fprintf(w, "  %-16s entries=%-8d residency=%s\n", s, r.counts[s], r.resided[s])
	}
}
