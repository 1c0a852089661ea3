// Package arena parses textual fight maps into an immutable cell table.
// Each character of the template is one cell; '#' is a wall, '*' marks a
// spawn slot and anything else is open floor.
package arena

import (
	"errors"
	"sort"
	"strings"

	"github.com/vovakirdan/qfighter/internal/core"
)

// Template symbols.
const (
	SymbolWall  = '#'
	SymbolSpawn = '*'
	SymbolEmpty = ' '
)

// ErrEmptyTemplate is returned when a template contains no cells.
var ErrEmptyTemplate = errors.New("arena: empty template")

// CellKind classifies a cell of the arena.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellWall
	CellSpawn
)

// String returns the string representation of a cell kind.
func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "Empty"
	case CellWall:
		return "Wall"
	case CellSpawn:
		return "Spawn"
	default:
		return "Unknown"
	}
}

// Arena is an immutable cell table plus the ordered spawn list.
// Spawn markers are consumed at parse time: the cells they occupied
// behave as empty floor afterwards.
type Arena struct {
	cells  map[core.Position]CellKind
	spawns []core.Position
	states []core.Position
	width  int
	height int
}

// Parse builds an arena from a text template.
// Surrounding blank lines are dropped and every row is trimmed of
// surrounding whitespace. Ragged rows are accepted: cells a short row
// does not define are simply absent and count as out of bounds.
func Parse(template string) (*Arena, error) {
	lines := strings.Split(strings.TrimSpace(template), "\n")

	a := &Arena{cells: make(map[core.Position]CellKind)}
	for row, line := range lines {
		line = strings.TrimSpace(line)
		col := 0
		for _, r := range line {
			pos := core.P(row, col)
			switch r {
			case SymbolWall:
				a.cells[pos] = CellWall
			case SymbolSpawn:
				a.cells[pos] = CellEmpty
				a.spawns = append(a.spawns, pos)
			default:
				a.cells[pos] = CellEmpty
			}
			a.states = append(a.states, pos)
			col++
		}
		if col > a.width {
			a.width = col
		}
	}
	a.height = len(lines)

	if len(a.cells) == 0 {
		return nil, ErrEmptyTemplate
	}
	return a, nil
}

// MustParse is like Parse but panics on error.
// Intended for built-in arenas known to be valid.
func MustParse(template string) *Arena {
	a, err := Parse(template)
	if err != nil {
		panic(err)
	}
	return a
}

// Contains reports whether pos is a cell of the arena.
func (a *Arena) Contains(pos core.Position) bool {
	_, ok := a.cells[pos]
	return ok
}

// Kind returns the kind of the cell at pos and whether it exists.
func (a *Arena) Kind(pos core.Position) (CellKind, bool) {
	k, ok := a.cells[pos]
	return k, ok
}

// IsWall reports whether pos is a wall cell.
func (a *Arena) IsWall(pos core.Position) bool {
	k, ok := a.cells[pos]
	return ok && k == CellWall
}

// Walkable reports whether pos exists and is not a wall.
func (a *Arena) Walkable(pos core.Position) bool {
	k, ok := a.cells[pos]
	return ok && k != CellWall
}

// States returns every coordinate of the arena in row-major order.
func (a *Arena) States() []core.Position {
	out := make([]core.Position, len(a.states))
	copy(out, a.states)
	return out
}

// Spawns returns the spawn positions in the order they were encountered.
func (a *Arena) Spawns() []core.Position {
	out := make([]core.Position, len(a.spawns))
	copy(out, a.spawns)
	return out
}

// Width returns the length of the longest row.
func (a *Arena) Width() int {
	return a.width
}

// Height returns the number of rows.
func (a *Arena) Height() int {
	return a.height
}

// String renders the arena back to its template form.
func (a *Arena) String() string {
	spawn := make(map[core.Position]bool, len(a.spawns))
	for _, p := range a.spawns {
		spawn[p] = true
	}

	positions := a.States()
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Less(positions[j])
	})

	var sb strings.Builder
	row := 0
	for _, p := range positions {
		for row < p.Row {
			sb.WriteByte('\n')
			row++
		}
		switch {
		case spawn[p]:
			sb.WriteRune(SymbolSpawn)
		case a.cells[p] == CellWall:
			sb.WriteRune(SymbolWall)
		default:
			sb.WriteRune(SymbolEmpty)
		}
	}
	return sb.String()
}
