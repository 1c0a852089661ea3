// qfighter trains two fighters against each other with joint-state
// Q-learning and lets you watch them learn in the terminal.
//
// Usage:
//
//	qfighter train            - Run generations headless
//	qfighter watch            - Watch training live
//	qfighter serve            - Start SSH server for remote spectators
//	qfighter history          - Show recorded generations
//	qfighter arenas [id]      - List or draw arenas
//
// Global flags:
//
//	--config <path>       - Fighter config YAML
//	--seed <value>        - RNG seed for reproducible training
//	--store <backend>     - Table store backend (file, sqlite)
//	--store-path <path>   - Store location
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/qfighter/internal/config"
	"github.com/vovakirdan/qfighter/internal/core"
	"github.com/vovakirdan/qfighter/internal/storage"
)

var (
	// Global flags
	flagConfig    string
	flagSeed      int64
	flagStore     string
	flagStorePath string
	flagLogLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qfighter",
	Short: "QFighter - watch two Q-learning fighters learn to brawl",
	Long: `QFighter pits two agents against each other on a small grid arena.
Each agent learns with a Q-table keyed on its own position and on the
opponent's position and last action.

Available commands:
  train    - Run generations headless and save the tables
  watch    - Watch training live in the terminal
  serve    - Start SSH server for remote spectators
  history  - Show recorded generations
  arenas   - List built-in arenas

Examples:
  qfighter train --generations 500
  qfighter watch --config ./fighter.yaml
  qfighter serve --ssh :2222
  qfighter history --limit 20
  qfighter arenas classic`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to fighter config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config value, random if unset)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Table store backend: file, sqlite")
	rootCmd.PersistentFlags().StringVar(&flagStorePath, "store-path", "", "Store location (directory for file, database for sqlite)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(arenasCmd)
}

// closers release resources opened by the running command.
var closers []func() error

// closeAll runs the registered closers in reverse order.
func closeAll() {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i]()
	}
	closers = nil
}

// fail prints the error, releases open resources and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	closeAll()
	os.Exit(1)
}

// newLogger builds the process logger at the --log-level level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "qfighter",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fail("invalid log level %q", flagLogLevel)
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig reads the fighter config and applies global flag overrides.
func loadConfig(cmd *cobra.Command) config.FighterConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("loading config: %v", err)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Training.Seed = flagSeed
	}
	if flags.Changed("store") {
		cfg.Storage.Backend = flagStore
	}
	if flags.Changed("store-path") {
		cfg.Storage.Path = flagStorePath
	}

	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}
	return cfg
}

// openStore opens the configured table store. It is closed by closeAll.
func openStore(cfg config.FighterConfig) storage.QTableStore {
	store, err := storage.NewQTableStore(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		fail("opening %s store: %v", cfg.Storage.Backend, err)
	}
	closers = append(closers, store.Close)
	return store
}

// seedFor resolves the configured seed, falling back to the clock.
func seedFor(cfg config.FighterConfig) int64 {
	return core.ResolveSeed(cfg.Training.Seed)
}
