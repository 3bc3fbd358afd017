package pm

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
)

// SuspendContext is the slice of the manager a suspend hook is allowed to
// touch while it runs: the state-lock query it must consult before
// committing to a state, and the one-shot gate that suppresses the
// idle-exit notification for the current cycle.
type SuspendContext interface {
	IsStateEnabled(State) bool
	DisableIdleExitNotification()
}

// Hooks is the platform policy surface. Implementations own the SoC
// register sequences; the manager owns the protocol around them.
type Hooks interface {
	// Suspend is invoked with interrupts disabled and the number of kernel
	// ticks guaranteed idle. It picks the deepest enabled state whose wake
	// latency fits the budget, arms a wake event and enters the state.
	// Inverted interrupt contract: a handled return means Suspend itself
	// re-enabled interrupts before returning; on NotHandled it must leave
	// them exactly as found.
	Suspend(ctx SuspendContext, ticks int32) SuspendResult

	// Resume runs in the interrupt context of the wake event, immediately
	// after interrupts come back on and before any other interrupt work.
	// It restores whatever Suspend set aside (clocks, priorities) and must
	// tolerate a nested higher-priority interrupt.
	Resume()

	// ResumeFromDeepSleep runs unconditionally early in boot. It returns
	// false when there is no deep-sleep history to unwind (ordinary cold
	// boot), in which case it must not have mutated anything.
	ResumeFromDeepSleep() bool
}

// IRQController models the master interrupt enable so the manager can
// check the inverted re-enable contract after every suspend attempt.
type IRQController interface {
	DisableIRQ()
	EnableIRQ()
	IRQEnabled() bool
}

// Manager owns the control-lock table, the idle-exit notification gate
// and the residency counters for one CPU's idle point. All state is
// explicit here; nothing in this package is a package-level variable.
// One Manager serves one idle point: cycles never overlap.
type Manager struct {
	hooks  Hooks
	irq    IRQController // nil disables postcondition checks
	logger hclog.Logger
	locks  LockTable
	res    residency

	inSuspend      bool
	notifyDisabled bool
	pendingExit    bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger routes protocol tracing through l.
func WithLogger(l hclog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithIRQController attaches the interrupt controller used to verify the
// suspend hook's interrupt postconditions.
func WithIRQController(c IRQController) Option {
	return func(m *Manager) { m.irq = c }
}

// WithClock overrides the residency time source. Tests use this.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.res.init(now) }
}

// NewManager builds a manager around the platform hooks. Every power
// state starts enabled.
func NewManager(hooks Hooks, opts ...Option) *Manager {
	if hooks == nil {
		panic("pm: NewManager requires platform hooks")
	}
	m := &Manager{
		hooks:  hooks,
		logger: hclog.NewNullLogger(),
	}
	m.res.init(nil)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Locks exposes the control-lock table for administrative enable/disable
// calls from task context.
func (m *Manager) Locks() *LockTable {
	return &m.locks
}

// IsStateEnabled implements SuspendContext.
func (m *Manager) IsStateEnabled(s State) bool {
	return m.locks.IsStateEnabled(s)
}

// DisableIdleExitNotification suppresses the Resume notification for the
// suspend cycle currently in progress. Legal only from inside the suspend
// hook; anywhere else it is a protocol violation and panics. The gate is
// cycle-scoped: it re-arms automatically at the next Suspend call.
func (m *Manager) DisableIdleExitNotification() {
	if !m.inSuspend {
		panic("pm: DisableIdleExitNotification called outside a suspend hook")
	}
	m.notifyDisabled = true
}

// Suspend is the idle scheduler's entry point, called with interrupts
// disabled and ticks of guaranteed idle time. A handled result means the
// hook re-enabled interrupts itself; NotHandled means the caller still
// owns the (disabled) interrupt state and falls back to a plain wait.
func (m *Manager) Suspend(ticks int32) SuspendResult {
	if m.pendingExit {
		panic("pm: suspend requested before idle exit of previous cycle")
	}
	if m.inSuspend {
		panic("pm: nested suspend")
	}
	if m.irq != nil && m.irq.IRQEnabled() {
		panic("pm: suspend requested with interrupts enabled")
	}

	m.notifyDisabled = false // one-shot gate, re-armed every cycle
	m.inSuspend = true
	res := m.hooks.Suspend(m, ticks)
	m.inSuspend = false

	m.checkIRQPostcondition(res)

	s, ok := res.State()
	if !ok {
		m.logger.Trace("💤 suspend not handled", "ticks", ticks)
		return res
	}
	if !m.locks.IsStateEnabled(s) {
		panic(fmt.Sprintf("pm: suspend hook entered locked-out state %s", s))
	}

	m.res.enter(s)
	m.pendingExit = true
	m.logger.Debug("💤 low power state entered", "state", s, "ticks", ticks, "notify", !m.notifyDisabled)
	return res
}

// A hook that enters a state but leaves interrupts masked, or that backs
// out yet turns them on, has broken the protocol in a way no caller can
// repair. Fatal, not recoverable.
func (m *Manager) checkIRQPostcondition(res SuspendResult) {
	if m.irq == nil {
		return
	}
	if res.Handled() && !m.irq.IRQEnabled() {
		panic(fmt.Sprintf("pm: suspend hook returned %s with interrupts still masked", res))
	}
	if !res.Handled() && m.irq.IRQEnabled() {
		panic("pm: suspend hook returned NOT_HANDLED but re-enabled interrupts")
	}
}

// IdleExit is called by interrupt dispatch from the ISR of the wake
// event, right after interrupts are re-enabled and before other interrupt
// work proceeds. It runs the Resume hook exactly once per handled,
// un-suppressed suspend cycle; on any other wake it does nothing, so
// spurious interrupts cannot produce a Resume without a matching Suspend.
func (m *Manager) IdleExit() {
	if m.inSuspend {
		panic("pm: idle exit during suspend hook")
	}
	if !m.pendingExit {
		return
	}
	m.pendingExit = false
	m.res.exit()
	if m.notifyDisabled {
		m.logger.Trace("⚡ idle exit notification suppressed this cycle")
		return
	}
	m.logger.Trace("⚡ idle exit, notifying platform")
	m.hooks.Resume()
}

// ResumeFromDeepSleep is called unconditionally early in boot, before the
// idle loop starts. On hardware that restarts execution after a
// destructive deep-sleep state it unwinds that exit; on an ordinary cold
// boot the hook reports false and this is a no-op.
func (m *Manager) ResumeFromDeepSleep() {
	if !m.hooks.ResumeFromDeepSleep() {
		return
	}
	m.logger.Info("🔋 resumed from deep sleep")
}

// DumpDebugInfo writes the per-state entry counts and residency to w.
// Diagnostic only; compiled down to a stub with the pm_nodebug tag.
func (m *Manager) DumpDebugInfo(w io.Writer) {
	m.res.dump(w)
}
