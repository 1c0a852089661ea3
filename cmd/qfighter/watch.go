package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/qfighter/internal/platform/tui"
	"github.com/vovakirdan/qfighter/internal/storage"
	"github.com/vovakirdan/qfighter/internal/training"
)

var (
	flagTickRate    int
	flagWatchLoad   string
	flagWatchNoSave bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the fighters train live",
	Long: `Run training in the terminal and draw every tick.

Controls:
  Space      - Pause / resume
  N/Right    - Step one tick while paused
  +/-        - Faster / slower
  R          - Restart the generation
  P          - Toggle which fighter resolves first
  I          - Load swapped tables
  0          - Load each fighter's own table
  1/2        - Every fighter loads A's / B's table
  F          - Forget everything (fresh tables)
  S          - Save tables
  H/Tab      - Generation history
  Q/Ctrl+C   - Quit

Examples:
  qfighter watch
  qfighter watch --tick-rate 30
  qfighter watch --load fresh --no-save`,
	Run: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&flagTickRate, "tick-rate", 0, "Ticks per second (0 = config value)")
	watchCmd.Flags().StringVar(&flagWatchLoad, "load", "", "Load mode at start (default: config value)")
	watchCmd.Flags().BoolVar(&flagWatchNoSave, "no-save", false, "Do not write tables")
}

func runWatch(cmd *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fail("watch needs a terminal; use 'qfighter train' for headless runs")
	}

	cfg := loadConfig(cmd)
	if flagTickRate > 0 {
		cfg.Watch.TickRate = flagTickRate
	}
	if flagWatchLoad != "" {
		cfg.Storage.LoadMode = flagWatchLoad
	}
	mode, err := cfg.Storage.Mode()
	if err != nil {
		fail("%v", err)
	}

	store := openStore(cfg)
	defer closeAll()

	mgr, err := training.NewManager(cfg, seedFor(cfg))
	if err != nil {
		fail("%v", err)
	}

	saveEvery := cfg.Training.SaveEvery
	if flagWatchNoSave {
		saveEvery = 0
	}
	opts := []training.SessionOption{
		training.WithMaxTicks(cfg.Training.MaxTicks),
		training.WithStore(store, saveEvery),
	}
	if rec, ok := store.(storage.HistoryRecorder); ok && !flagWatchNoSave {
		opts = append(opts, training.WithRecorder(rec))
	}
	session := training.NewSession(mgr, opts...)

	if _, err := session.Load(context.Background(), mode); err != nil {
		fail("%v", err)
	}

	watchOpts := tui.WatchOptions{
		TickRate:    cfg.Watch.TickRate,
		AllowSave:   !flagWatchNoSave,
		HistoryRows: cfg.Watch.HistoryRows,
	}
	if h, ok := store.(tui.HistoryLoader); ok {
		watchOpts.History = h
	}

	if err := tui.Run(session, watchOpts); err != nil {
		fail("%v", err)
	}
}
