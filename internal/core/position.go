package core

import "fmt"

// Position is a cell coordinate in the arena.
// Row grows downward, Col grows to the right.
type Position struct {
	Row int
	Col int
}

// P is a convenience constructor for Position.
func P(row, col int) Position {
	return Position{Row: row, Col: col}
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Shift returns the position moved by dc columns on the same row.
func (p Position) Shift(dc int) Position {
	return Position{Row: p.Row, Col: p.Col + dc}
}

// Apply returns the cell targeted by an action taken from p.
// Non-moving actions target p itself.
func (p Position) Apply(a Action) Position {
	return p.Shift(a.ColumnDelta())
}

// Manhattan returns the Manhattan distance to another position.
func (p Position) Manhattan(other Position) int {
	return Abs(p.Row-other.Row) + Abs(p.Col-other.Col)
}

// Adjacent reports whether other is exactly one column away on the same row.
func (p Position) Adjacent(other Position) bool {
	return p.Row == other.Row && p.Manhattan(other) == 1
}

// Less orders positions row-major.
func (p Position) Less(other Position) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Col < other.Col
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
