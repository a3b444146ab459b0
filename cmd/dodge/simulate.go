package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/arena"
	"github.com/vovakirdan/tui-dodge/internal/clock"
	"github.com/vovakirdan/tui-dodge/internal/registry"
	"github.com/vovakirdan/tui-dodge/internal/session"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

var (
	flagSimRuns     int
	flagSimLimit    time.Duration
	flagSimReaction time.Duration
	flagSimIdle     bool
	flagSimSave     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [category]",
	Short: "Run headless sessions with the autopilot",
	Long: `Play sessions without a terminal on a virtual clock, as fast as the
machine allows. The autopilot moves threatened tiles aside; --idle leaves
them where they start. Useful for tuning configs and presets.

Sessions still running when --limit of session time has passed are
concluded as a player quit.

Examples:
  dodge simulate
  dodge simulate survival --runs 20 --seed 1
  dodge simulate classic --difficulty hard --reaction 300ms
  dodge simulate zen --limit 5m --save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimRuns, "runs", 1, "Number of sessions to play")
	simulateCmd.Flags().DurationVar(&flagSimLimit, "limit", 10*time.Minute, "Session time after which a run is stopped")
	simulateCmd.Flags().DurationVar(&flagSimReaction, "reaction", 150*time.Millisecond, "Autopilot reaction interval")
	simulateCmd.Flags().BoolVar(&flagSimIdle, "idle", false, "Never move tiles")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Store results in the database")
}

func runSimulate(cmd *cobra.Command, args []string) {
	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	s, err := resolveSettings(cmd, category)
	if err != nil {
		fail("%v", err)
	}
	logger := s.logger()

	var store *storage.Store
	if flagSimSave {
		if store, err = storage.Open(s.dbPath); err != nil {
			fail("opening results database: %v", err)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	step := time.Second / time.Duration(max(s.fps, 1))

	fmt.Printf("  %-4s  %-7s  %-5s  %-6s  %-4s  %-7s  %-5s  %s\n",
		"Run", "Score", "Combo", "Dodged", "Hit", "Time", "Level", "Ended")
	for i, n := 0, flagSimRuns; i < n; i++ {
		runSeed := seed + int64(i)
		cfg, err := registry.Configure(s.category, s.game, s.preset, runSeed)
		if err != nil {
			fail("%v", err)
		}

		res, err := simulate(ctx, cfg, arena.LayoutFromConfig(s.game.PlayZone), step, logger)
		if err != nil {
			logger.Warn("simulation interrupted", "run", i+1, "error", err)
			return
		}

		fmt.Printf("  %-4d  %-7d  x%-4d  %-6d  %-4d  %-7s  %-5d  %s\n",
			i+1, res.FinalScore, res.PeakCombo, res.Dodges, res.Collisions,
			res.Duration.Round(time.Second), res.Level, res.Reason)

		if store != nil {
			if _, err := store.SaveResult(res); err != nil {
				logger.Warn("could not save result", "run", i+1, "error", err)
			}
		}
	}
}

// simulate plays one session to its end on a virtual clock.
func simulate(ctx context.Context, cfg session.Configuration, layout arena.Layout, step time.Duration, logger *log.Logger) (session.Result, error) {
	clk := clock.NewManual(time.Now())
	o := session.New(session.WithClock(clk), session.WithLogger(logger))
	if !o.Initialize(cfg) {
		return session.Result{}, errors.New("cannot initialize session")
	}

	a := arena.New(o, layout)
	a.Attach()
	defer a.Detach()
	if !flagSimIdle {
		pilot := arena.NewAutopilot(a, flagSimReaction)
		pilot.Attach()
		defer pilot.Detach()
	}

	o.Commence()
	if err := session.RunVirtual(ctx, o, clk, step, flagSimLimit); err != nil {
		o.ResetToDormant()
		return session.Result{}, err
	}
	if o.State() == session.Executing {
		o.Conclude(session.ReasonPlayerQuit)
	}

	res, _ := o.Result()
	return res, nil
}
