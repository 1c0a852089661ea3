package population

import (
	"context"
	"fmt"
	"strings"

	"github.com/vovakirdan/qfighter/internal/agent"
)

// LoadMode selects which stored table each fighter starts from.
type LoadMode int

const (
	LoadFresh   LoadMode = iota // Every fighter starts from an empty table
	LoadSelf                    // Fighter i loads table i
	LoadSwap                    // Fighter i loads table (i+1) mod n
	LoadMirror0                 // Every fighter loads table 0
	LoadMirror1                 // Every fighter loads table 1
)

var loadModeNames = map[LoadMode]string{
	LoadFresh:   "fresh",
	LoadSelf:    "self",
	LoadSwap:    "swap",
	LoadMirror0: "mirror0",
	LoadMirror1: "mirror1",
}

// String returns the mode name used in config files and flags.
func (m LoadMode) String() string {
	if name, ok := loadModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseLoadMode parses a mode name.
func ParseLoadMode(s string) (LoadMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for mode, name := range loadModeNames {
		if name == s {
			return mode, nil
		}
	}
	return LoadFresh, fmt.Errorf("population: unknown load mode %q", s)
}

// LoadModeNames lists the accepted mode names.
func LoadModeNames() []string {
	return []string{"fresh", "self", "swap", "mirror0", "mirror1"}
}

// source returns the stored table index fighter i loads from.
func (m LoadMode) source(i, n int) (int, bool) {
	switch m {
	case LoadSelf:
		return i, true
	case LoadSwap:
		return (i + 1) % n, true
	case LoadMirror0:
		return 0, true
	case LoadMirror1:
		return 1, true
	default:
		return 0, false
	}
}

// TableLoader reads a stored table blob by fighter index.
type TableLoader interface {
	LoadQTable(ctx context.Context, index int) ([]byte, bool, error)
}

// TableSaver writes a table blob by fighter index.
type TableSaver interface {
	SaveQTable(ctx context.Context, index int, blob []byte) error
}

// LoadReport lists what a load actually did.
type LoadReport struct {
	Mode    LoadMode
	Loaded  []int // Fighters that adopted a stored table
	Missing []int // Fighters that fell back to an empty table
}

// LoadTables replaces every fighter's table according to mode. A missing
// blob gives that fighter an empty table. Every fighter decodes its own
// copy, so mirrored fighters never share a table.
func (m *Manager) LoadTables(ctx context.Context, store TableLoader, mode LoadMode) (LoadReport, error) {
	report := LoadReport{Mode: mode}
	tables := make([]*agent.QTable, len(m.agents))

	for i := range m.agents {
		src, ok := mode.source(i, len(m.agents))
		if !ok {
			tables[i] = agent.NewQTable()
			continue
		}

		blob, found, err := store.LoadQTable(ctx, src)
		if err != nil {
			return report, fmt.Errorf("population: load table %d for agent %d: %w", src, i, err)
		}
		if !found {
			tables[i] = agent.NewQTable()
			report.Missing = append(report.Missing, i)
			continue
		}

		q, err := agent.DecodeQTable(blob)
		if err != nil {
			return report, fmt.Errorf("population: decode table %d for agent %d: %w", src, i, err)
		}
		tables[i] = q
		report.Loaded = append(report.Loaded, i)
	}

	for i, a := range m.agents {
		a.AdoptQTable(tables[i])
	}
	return report, nil
}

// SaveTables stores every fighter's table under its own index.
func (m *Manager) SaveTables(ctx context.Context, store TableSaver) error {
	for _, a := range m.agents {
		blob, err := a.EncodeQTable()
		if err != nil {
			return fmt.Errorf("population: encode agent %d: %w", a.Index(), err)
		}
		if err := store.SaveQTable(ctx, a.Index(), blob); err != nil {
			return fmt.Errorf("population: save agent %d: %w", a.Index(), err)
		}
	}
	return nil
}
