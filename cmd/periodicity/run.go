package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/periodicity/sim/internal/sim"
)

var flagFrames uint64

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation frame loop",
	Long: `Builds the world from the configured spell catalog and spawn list,
replays the [demo] casts and ticks until SIGINT/SIGTERM or --frames.`,
	RunE: runSim,
}

func init() {
	runCmd.Flags().Uint64Var(&flagFrames, "frames", 0, "Stop after N frames (0 = run until interrupted)")
}

func runSim(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	renderer := newLogRenderer(cfg.Simulation.RenderEvery, log)
	s, err := sim.Load(cfg, renderer, log)
	if err != nil {
		return err
	}
	defer s.Close()
	renderer.bind(s)

	printSection("World")
	printStat("Spells", s.Spells().Count())
	printStat("Units", s.Game().Identities.Len())
	printStat("Presentation links", s.Present().Links.Len())
	printStat("Demo casts", len(cfg.Demo.Casts))
	fmt.Println()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printSection("Running")
	maxDt := "unclamped"
	if cfg.Simulation.MaxFrameDelta > 0 {
		maxDt = cfg.Simulation.MaxFrameDelta.String()
	}
	printReady(fmt.Sprintf("frame loop (frame: %s, max dt: %s)", cfg.Simulation.FrameRate, maxDt))
	fmt.Println()

	if err := s.Run(ctx, flagFrames); err != nil {
		return err
	}

	st := s.Stats()
	log.Info("simulation finished",
		zap.Uint64("frames", s.Frames()),
		zap.Duration("simulated", s.Elapsed()),
		zap.Int("spells_landed", st.SpellsLanded),
		zap.Int("debuffs_applied", st.DebuffsApplied),
		zap.Int("deaths", st.Deaths),
		zap.Int("level_ups", st.LevelUps),
	)
	return nil
}
