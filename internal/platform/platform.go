// Package platform provides the reference suspend-hook implementation the
// simulator and integration tests run against. Real ports replace this
// package with SoC register sequences; the policy shape stays the same.
package platform

import (
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"github.com/ohsawa/zephyr/pkg/pm"
)

// StateSpec describes the timing envelope of one power state as the
// policy sees it: the smallest idle budget for which entering the state
// still guarantees waking up in time.
type StateSpec struct {
	State pm.State

	// MinTicks is the entry + exit overhead floor. Budgets below this
	// would wake late and disrupt scheduling, so the state is skipped.
	MinTicks int32
}

// Config wires a simulated SoC.
type Config struct {
	// Specs lists the timing envelopes, shallowest first. Defaults to
	// DefaultSpecs when empty.
	Specs []StateSpec

	// SuppressDeepNotify makes the policy disable the idle-exit
	// notification whenever it commits to a deep-sleep state, the way
	// ports whose deep-sleep exit path does its own restore do.
	SuppressDeepNotify bool

	// DestructiveDeepSleep marks deep-sleep entries so the next
	// ResumeFromDeepSleep finds a real exit to unwind.
	DestructiveDeepSleep bool

	Logger hclog.Logger
}

// SoC simulates a single-core SoC behind the pm.Hooks surface: a latency
// table, a master interrupt line and a wake event register.
type SoC struct {
	logger   hclog.Logger
	specs    []StateSpec
	cfg      Config
	irq      IRQLine
	deepMark bool

	entered   pm.State
	inState   bool
	wakeTicks int32
	wakeArmed bool
	resumes   uint64
}

// New builds a simulated SoC. The zero Config is usable.
func New(cfg Config) *SoC {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	specs := cfg.Specs
	if len(specs) == 0 {
		specs = DefaultSpecs()
	}
	s := &SoC{logger: logger, specs: specs, cfg: cfg}
	s.irq.EnableIRQ() // boot leaves interrupts on; the idle loop masks them
	return s
}

// DefaultSpecs returns a latency table covering every compiled-in state,
// with the floor roughly quadrupling per depth step.
func DefaultSpecs() []StateSpec {
	specs := make([]StateSpec, 0, pm.NumStates)
	min := int32(250)
	for s := pm.State(0); s < pm.NumStates; s++ {
		specs = append(specs, StateSpec{State: s, MinTicks: min})
		min *= 4
	}
	return specs
}

// IRQ exposes the simulated master interrupt line.
func (s *SoC) IRQ() *IRQLine {
	return &s.irq
}

// Suspend implements pm.Hooks: deepest enabled state whose floor fits the
// budget wins, shallower states are the fallback, nothing fitting means
// NotHandled with interrupts left masked for the caller.
func (s *SoC) Suspend(ctx pm.SuspendContext, ticks int32) pm.SuspendResult {
	for i := len(s.specs) - 1; i >= 0; i-- {
		spec := s.specs[i]
		if !ctx.IsStateEnabled(spec.State) {
			continue
		}
		if spec.MinTicks > ticks {
			continue
		}
		return s.enter(ctx, spec.State, ticks)
	}
	s.logger.Debug("no eligible power state", "ticks", ticks)
	return pm.NotHandled
}

func (s *SoC) enter(ctx pm.SuspendContext, state pm.State, ticks int32) pm.SuspendResult {
	if state.Deep() && s.cfg.SuppressDeepNotify {
		ctx.DisableIdleExitNotification()
	}
	if state.Deep() && s.cfg.DestructiveDeepSleep {
		s.deepMark = true
	}

	// Wake event armed to fire before the budget runs out, then the
	// hardware wait. The harness drives the actual wake interrupt.
	s.wakeTicks = ticks
	s.wakeArmed = true
	s.entered = state
	s.inState = true

	s.logger.Debug("💤 entering power state", "state", state, "wake_in", ticks)
	s.irq.EnableIRQ() // inverted contract: handled means interrupts back on
	return pm.Entered(state)
}

// Resume implements pm.Hooks. Runs in wake-ISR context with interrupts
// already enabled; only touches fields the nested-interrupt window cannot
// observe torn.
func (s *SoC) Resume() {
	atomic.AddUint64(&s.resumes, 1)
	s.inState = false
	s.wakeArmed = false
	s.logger.Debug("⚡ wake event", "state", s.entered)
}

// ResumeFromDeepSleep implements pm.Hooks: unwinds a destructive
// deep-sleep exit once, reports false on ordinary cold boot.
func (s *SoC) ResumeFromDeepSleep() bool {
	if !s.deepMark {
		return false
	}
	s.deepMark = false
	s.inState = false
	s.wakeArmed = false
	s.logger.Info("🔋 deep sleep exit unwound")
	return true
}

// PendingWake reports the armed wake deadline in ticks, if any. The idle
// harness uses it to schedule the simulated wake interrupt.
func (s *SoC) PendingWake() (int32, bool) {
	return s.wakeTicks, s.wakeArmed
}

// Resumes returns how many wake notifications the platform has handled.
func (s *SoC) Resumes() uint64 {
	return atomic.LoadUint64(&s.resumes)
}

// InState reports whether the simulation currently sits in a low-power
// state (between Suspend and the wake event).
func (s *SoC) InState() (pm.State, bool) {
	return s.entered, s.inState
}
