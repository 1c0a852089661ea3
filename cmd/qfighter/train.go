package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/qfighter/internal/population"
	"github.com/vovakirdan/qfighter/internal/storage"
	"github.com/vovakirdan/qfighter/internal/training"
)

var (
	flagGenerations int
	flagLoad        string
	flagNoSave      bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run training generations headless",
	Long: `Run the fighters through a number of generations without a display.

Each generation ends when at most one fighter is alive or the tick cap is
reached (a draw). Tables are saved every training.save_every generations
and once more at the end, unless --no-save is given.

Load modes:
  fresh    - Start from empty tables
  self     - Each fighter loads its own table
  swap     - Fighters load each other's tables
  mirror0  - Every fighter loads fighter A's table
  mirror1  - Every fighter loads fighter B's table

Examples:
  qfighter train
  qfighter train --generations 1000 --load swap
  qfighter train --seed 42 --no-save`,
	Run: runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&flagGenerations, "generations", 0, "Generations to run (0 = config value)")
	trainCmd.Flags().StringVar(&flagLoad, "load", "", "Load mode: fresh, self, swap, mirror0, mirror1 (default: config value)")
	trainCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not write tables")
}

func runTrain(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	logger := newLogger()

	if flagGenerations > 0 {
		cfg.Training.Generations = flagGenerations
	}
	if flagLoad != "" {
		cfg.Storage.LoadMode = flagLoad
	}
	mode, err := cfg.Storage.Mode()
	if err != nil {
		fail("%v", err)
	}

	store := openStore(cfg)
	defer closeAll()

	seed := seedFor(cfg)
	mgr, err := training.NewManager(cfg, seed)
	if err != nil {
		fail("%v", err)
	}

	opts := []training.SessionOption{
		training.WithMaxTicks(cfg.Training.MaxTicks),
		training.WithLogger(logger),
	}
	saveEvery := cfg.Training.SaveEvery
	if flagNoSave {
		saveEvery = 0
	}
	opts = append(opts, training.WithStore(store, saveEvery))
	if rec, ok := store.(storage.HistoryRecorder); ok {
		opts = append(opts, training.WithRecorder(rec))
	}
	session := training.NewSession(mgr, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := session.Load(ctx, mode)
	if err != nil {
		fail("%v", err)
	}
	if mode != population.LoadFresh {
		logger.Info("tables loaded", "mode", mode, "loaded", len(report.Loaded), "fresh", len(report.Missing))
	}

	logger.Info("training",
		"arena", cfg.Arena.Name,
		"generations", cfg.Training.Generations,
		"seed", seed,
		"store", cfg.Storage.Backend,
	)

	trainer := training.NewTrainer(session, logger, !flagNoSave)
	sum, err := trainer.Run(ctx, cfg.Training.Generations)
	if errors.Is(err, context.Canceled) {
		logger.Warn("training interrupted", "generations", sum.Generations)
		if !flagNoSave {
			if err := session.Save(context.Background()); err != nil {
				fail("saving tables: %v", err)
			}
		}
	} else if err != nil {
		fail("%v", err)
	}

	fmt.Println()
	fmt.Printf("Generations: %d in %s (%d ticks)\n", sum.Generations, sum.Elapsed.Round(time.Millisecond), sum.Ticks)
	fmt.Printf("Draws:       %d\n", sum.Draws)
	for i := 0; i < mgr.Len(); i++ {
		fmt.Printf("Fighter %c:   %d wins\n", 'A'+i, sum.Wins[i])
	}
}
