package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/qfighter/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded generations",
	Long: `Display the most recent generations recorded by train and watch,
followed by totals. History is only kept by the sqlite store.

Examples:
  qfighter history
  qfighter history --limit 50
  qfighter history --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of generations to show")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete recorded history (tables are kept)")
}

func runHistory(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	if !strings.EqualFold(cfg.Storage.Backend, storage.BackendSQLite) {
		fail("history needs the %s store, configured store is %q", storage.BackendSQLite, cfg.Storage.Backend)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fail("opening history database: %v", err)
	}
	closers = append(closers, store.Close)
	defer closeAll()

	ctx := context.Background()

	if flagHistoryClear {
		if err := store.ClearHistory(ctx); err != nil {
			fail("clearing history: %v", err)
		}
		fmt.Println("History cleared.")
		return
	}

	records, err := store.History(ctx, flagHistoryLimit)
	if err != nil {
		fail("retrieving history: %v", err)
	}

	fmt.Println("Generation History")
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No generations recorded yet.")
		fmt.Println()
		fmt.Println("Run 'qfighter train' to start training.")
		return
	}

	// Print header
	fmt.Printf("  %-6s  %-6s  %-6s  %-20s  %-6s  %s\n", "Gen", "Ticks", "Winner", "Scores", "ε", "Date")
	fmt.Printf("  %-6s  %-6s  %-6s  %-20s  %-6s  %s\n", "---", "-----", "------", "------", "-", "----")

	for _, r := range records {
		winner := "draw"
		if !r.Draw() {
			winner = fmt.Sprintf("%c", 'A'+r.Winner)
		}
		scores := make([]string, len(r.Scores))
		for i, s := range r.Scores {
			scores[i] = fmt.Sprintf("%.1f", s)
		}
		explore := "-"
		if len(r.Exploration) > 0 {
			explore = fmt.Sprintf("%.3f", r.Exploration[0])
		}
		fmt.Printf("  %-6d  %-6d  %-6s  %-20s  %-6s  %s\n",
			r.Generation, r.Ticks, winner, strings.Join(scores, " / "), explore,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		fail("computing totals: %v", err)
	}

	fmt.Println()
	fmt.Printf("Total: %d generations, %d draws, %.1f ticks on average\n", stats.Generations, stats.Draws, stats.AvgTicks)
	for i := 0; i < len(records[len(records)-1].Scores); i++ {
		fmt.Printf("Fighter %c: %d wins\n", 'A'+i, stats.Wins[i])
	}
	fmt.Printf("Best score: %.1f\n", stats.BestScore)
}
