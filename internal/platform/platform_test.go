package platform

import (
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/ohsawa/zephyr/pkg/pm"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "platform_test",
		Level: hclog.Trace,
	})
}

// newRig wires a simulated SoC to a manager the way the boot path does.
func newRig(t *testing.T, cfg Config) (*pm.Manager, *SoC) {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = testLogger()
	}
	soc := New(cfg)
	mgr := pm.NewManager(soc, pm.WithIRQController(soc.IRQ()))
	return mgr, soc
}

// cycle drives one idle cycle against the rig and returns the result.
func cycle(t *testing.T, mgr *pm.Manager, soc *SoC, ticks int32) pm.SuspendResult {
	t.Helper()
	soc.IRQ().DisableIRQ()
	res := mgr.Suspend(ticks)
	if !res.Handled() {
		soc.IRQ().EnableIRQ()
	}
	mgr.IdleExit()
	return res
}

// TestPolicySelection covers the budget-fit rules: deepest enabled state
// whose floor fits wins, shallower states are the fallback, nothing
// fitting means NOT_HANDLED.
func TestPolicySelection(t *testing.T) {
	specs := []StateSpec{
		{State: pm.StateCPULowPower, MinTicks: 100},
		{State: pm.StateDeepSleep, MinTicks: 1200},
	}

	testCases := []struct {
		name    string
		ticks   int32
		disable []pm.State
		want    pm.State
		handled bool
	}{
		{name: "big budget picks deepest", ticks: 100000, want: pm.StateDeepSleep, handled: true},
		{name: "deep floor misses, shallow fallback", ticks: 1000, want: pm.StateCPULowPower, handled: true},
		{name: "exact deep floor fits", ticks: 1200, want: pm.StateDeepSleep, handled: true},
		{name: "budget below every floor", ticks: 50, handled: false},
		{name: "deep disabled, huge budget", ticks: 100000, disable: []pm.State{pm.StateDeepSleep}, want: pm.StateCPULowPower, handled: true},
		{name: "all states disabled", ticks: 100000, disable: []pm.State{pm.StateCPULowPower, pm.StateDeepSleep}, handled: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mgr, soc := newRig(t, Config{Specs: specs})
			for _, s := range tc.disable {
				mgr.Locks().DisableState(s)
			}

			res := cycle(t, mgr, soc, tc.ticks)

			if res.Handled() != tc.handled {
				t.Fatalf("Suspend(%d).Handled() = %v, want %v", tc.ticks, res.Handled(), tc.handled)
			}
			if !tc.handled {
				return
			}
			got, _ := res.State()
			if got != tc.want {
				t.Errorf("Suspend(%d) entered %s, want %s", tc.ticks, got, tc.want)
			}
		})
	}
}

// TestDisabledStateNeverSelected re-runs the lockout scenario across the
// whole budget range: a locked-out deep sleep must never appear no matter
// the budget.
func TestDisabledStateNeverSelected(t *testing.T) {
	mgr, soc := newRig(t, Config{})
	mgr.Locks().DisableState(pm.StateDeepSleep)

	for _, ticks := range []int32{100, 1000, 100000, 1 << 30} {
		res := cycle(t, mgr, soc, ticks)
		if res.Deep() {
			t.Fatalf("Suspend(%d) entered deep sleep while locked out", ticks)
		}
	}
}

// TestInterruptContract checks both exit shapes of the inverted interrupt
// convention at the platform level.
func TestInterruptContract(t *testing.T) {
	specs := []StateSpec{{State: pm.StateCPULowPower, MinTicks: 100}}
	mgr, soc := newRig(t, Config{Specs: specs})

	// Handled: the hook itself re-enabled interrupts before returning.
	soc.IRQ().DisableIRQ()
	res := mgr.Suspend(500)
	if !res.Handled() || !soc.IRQ().IRQEnabled() {
		t.Fatalf("handled suspend left interrupts masked (result %s)", res)
	}
	mgr.IdleExit()

	// Not handled: interrupts stay exactly as the caller left them.
	soc.IRQ().DisableIRQ()
	res = mgr.Suspend(10)
	if res.Handled() {
		t.Fatalf("Suspend(10) = %s, want NOT_HANDLED", res)
	}
	if soc.IRQ().IRQEnabled() {
		t.Fatal("NOT_HANDLED suspend re-enabled interrupts")
	}
	soc.IRQ().EnableIRQ()
	mgr.IdleExit()
}

// TestWakeEventArming checks the wake event is sized to the idle budget
// and cleared on resume.
func TestWakeEventArming(t *testing.T) {
	mgr, soc := newRig(t, Config{})

	if _, armed := soc.PendingWake(); armed {
		t.Fatal("wake event armed before any suspend")
	}

	soc.IRQ().DisableIRQ()
	mgr.Suspend(5000)
	ticks, armed := soc.PendingWake()
	if !armed || ticks != 5000 {
		t.Fatalf("PendingWake() = %d, %v; want 5000, true", ticks, armed)
	}

	mgr.IdleExit()
	if _, armed := soc.PendingWake(); armed {
		t.Error("wake event still armed after resume")
	}
}

// TestSuppressDeepNotify: ports that restore state on their own deep exit
// path disable the idle-exit notification for deep states only.
func TestSuppressDeepNotify(t *testing.T) {
	specs := []StateSpec{
		{State: pm.StateCPULowPower, MinTicks: 100},
		{State: pm.StateDeepSleep, MinTicks: 1200},
	}
	mgr, soc := newRig(t, Config{Specs: specs, SuppressDeepNotify: true})

	res := cycle(t, mgr, soc, 100000)
	if !res.Deep() {
		t.Fatalf("expected deep sleep, got %s", res)
	}
	if soc.Resumes() != 0 {
		t.Error("deep cycle notified despite suppression")
	}

	res = cycle(t, mgr, soc, 500)
	if res.Deep() {
		t.Fatalf("expected shallow state, got %s", res)
	}
	if soc.Resumes() != 1 {
		t.Errorf("shallow cycle resumes = %d, want 1 (gate must re-arm)", soc.Resumes())
	}
}

// TestResumeFromDeepSleepColdBoot: the boot hook must detect the
// no-history case and leave everything untouched.
func TestResumeFromDeepSleepColdBoot(t *testing.T) {
	mgr, soc := newRig(t, Config{DestructiveDeepSleep: true})

	mgr.ResumeFromDeepSleep()
	if soc.Resumes() != 0 {
		t.Error("cold boot produced a resume notification")
	}
	if _, in := soc.InState(); in {
		t.Error("cold boot left the simulation in a power state")
	}

	// A later deep-sleep cycle marks history; the next boot call unwinds
	// it exactly once.
	res := cycle(t, mgr, soc, 100000)
	if !res.Deep() {
		t.Fatalf("expected deep sleep, got %s", res)
	}
	if !soc.ResumeFromDeepSleep() {
		t.Error("deep-sleep history not detected on boot")
	}
	if soc.ResumeFromDeepSleep() {
		t.Error("deep-sleep exit unwound twice")
	}
}
