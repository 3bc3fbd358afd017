//go:build pm_nodebug

package pm

import (
	"io"
	"time"
)

// residency stub for builds without debug reporting. Empty struct and
// empty methods so the suspend path carries no bookkeeping at all.
type residency struct{}

func (*residency) init(func() time.Time) {}
func (*residency) enter(State)           {}
func (*residency) exit()                 {}

func (*residency) dump(w io.Writer) {
	io.WriteString(w, "power state residency: not compiled in\n")
}
