package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/qfighter/internal/arena"
)

var flagArenaDir string

var arenasCmd = &cobra.Command{
	Use:   "arenas [id]",
	Short: "List arenas or draw one",
	Long: `Without arguments, lists the built-in arenas (or those found in --dir).
With an ID, draws that arena's template.

Examples:
  qfighter arenas
  qfighter arenas pit
  qfighter arenas --dir ./arenas`,
	Args: cobra.MaximumNArgs(1),
	Run:  runArenas,
}

func init() {
	arenasCmd.Flags().StringVar(&flagArenaDir, "dir", "", "Directory of arena files (.yaml, .yml, .txt)")
}

func runArenas(_ *cobra.Command, args []string) {
	defs := builtinDefinitions()
	if flagArenaDir != "" {
		var err error
		defs, err = arena.NewLoader(flagArenaDir).LoadAll()
		if err != nil {
			fail("loading arenas: %v", err)
		}
	}

	if len(args) == 1 {
		drawArena(defs, args[0])
		return
	}

	if len(defs) == 0 {
		fmt.Println("No arenas available.")
		return
	}

	fmt.Println("Available arenas:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, d := range defs {
		if len(d.ID) > maxIDLen {
			maxIDLen = len(d.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "ID", "Name", "Spawns")
	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "--", "----", "------")

	for _, d := range defs {
		spawns := "?"
		if a, err := d.Build(); err == nil {
			spawns = fmt.Sprintf("%d", len(a.Spawns()))
		}
		fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, d.ID, d.Name, spawns)
	}

	fmt.Println()
	fmt.Println("Run 'qfighter arenas <id>' to draw an arena.")
}

func builtinDefinitions() []arena.Definition {
	infos := arena.List()
	defs := make([]arena.Definition, 0, len(infos))
	for _, info := range infos {
		def, err := arena.Lookup(info.ID)
		if err != nil {
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

func drawArena(defs []arena.Definition, id string) {
	for _, d := range defs {
		if d.ID != id {
			continue
		}
		a, err := d.Build()
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("%s (%d×%d, %d spawns)\n\n", d.Name, a.Width(), a.Height(), len(a.Spawns()))
		fmt.Println(a.String())
		return
	}
	fail("unknown arena %q\nRun 'qfighter arenas' to see available arenas.", id)
}
