package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ohsawa/zephyr/internal/platform"
	"github.com/ohsawa/zephyr/pkg/logging"
	"github.com/ohsawa/zephyr/pkg/pm"
)

const version = "0.2.0"

var (
	cycles         int
	minTicks       int32
	maxTicks       int32
	seed           int64
	disabledStates []string
	suppressDeep   bool
	destructive    bool
	logLevel       string
	dumpInfo       bool
	versionFlag    bool
	rootCmd        *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "pmsim",
		Short: "Simulate idle power-management cycles",
		Long:  `Simulate idle power-management cycles`,
		RunE:  runSim,
	}

	rootCmd.Flags().IntVarP(&cycles, "cycles", "n", 10, "Number of idle cycles to run")
	rootCmd.Flags().Int32Var(&minTicks, "min-ticks", 100, "Smallest idle budget per cycle")
	rootCmd.Flags().Int32Var(&maxTicks, "max-ticks", 20000, "Largest idle budget per cycle")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Budget RNG seed (0 = time-based)")
	rootCmd.Flags().StringArrayVar(&disabledStates, "disable", nil, "Power state to lock out (repeatable)")
	rootCmd.Flags().BoolVar(&suppressDeep, "suppress-deep-notify", false, "Skip idle-exit notification for deep-sleep states")
	rootCmd.Flags().BoolVar(&destructive, "destructive-deep-sleep", false, "Model deep sleep as destructive (exercises boot resume)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&dumpInfo, "dump", true, "Dump residency debug info after the run")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("pmsim %s\n", version)
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func runSim(cmd *cobra.Command, args []string) error {
	if versionFlag {
		fmt.Printf("pmsim %s\n", version)
		return nil
	}
	if minTicks <= 0 || maxTicks < minTicks {
		return fmt.Errorf("invalid tick budget range [%d, %d]", minTicks, maxTicks)
	}

	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	logger := logging.NewLogger("pmsim", level, os.Stderr)

	soc := platform.New(platform.Config{
		SuppressDeepNotify:   suppressDeep,
		DestructiveDeepSleep: destructive,
		Logger:               logger.Named("soc"),
	})
	mgr := pm.NewManager(soc,
		pm.WithLogger(logger.Named("pm")),
		pm.WithIRQController(soc.IRQ()),
	)

	// Boot path: unconditional, no-op on cold boot.
	mgr.ResumeFromDeepSleep()

	for _, name := range disabledStates {
		s, err := pm.ParseState(name)
		if err != nil {
			return err
		}
		mgr.Locks().DisableState(s)
		logger.Info("🔒 state locked out", "state", s)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	handled := 0

	for i := 0; i < cycles; i++ {
		budget := minTicks + rng.Int31n(maxTicks-minTicks+1)

		// The idle loop masks interrupts, then asks to suspend.
		soc.IRQ().DisableIRQ()
		res := mgr.Suspend(budget)

		if !res.Handled() {
			// Fallback: plain wait, caller re-enables interrupts itself.
			soc.IRQ().EnableIRQ()
			logger.Info("cycle fell back to plain idle", "cycle", i, "ticks", budget)
			continue
		}
		handled++

		// Wake event fires; interrupt dispatch runs the idle-exit path
		// before any other interrupt work.
		mgr.IdleExit()

		if destructive && res.Deep() {
			// Destructive exit restarts execution through the boot path.
			mgr.ResumeFromDeepSleep()
		}
		logger.Info("cycle complete", "cycle", i, "ticks", budget, "result", res.String())
	}

	fmt.Printf("ran %d cycles (%d handled, %d fallback), seed %d\n", cycles, handled, cycles-handled, seed)
	if dumpInfo {
		mgr.DumpDebugInfo(os.Stdout)
	}
	return nil
}
