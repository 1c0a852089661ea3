// Package core provides the fundamental value types shared by the fighter
// simulation: actions, grid positions and runtime configuration.
// It has no dependencies on the rest of the module.
package core

// Action represents a fighter's choice for one tick.
type Action int

const (
	ActionNone      Action = iota // No action chosen yet, or none resolved
	ActionMoveLeft                // Step one column to the left
	ActionMoveRight               // Step one column to the right
	ActionPunch                   // Hit an adjacent opponent
	ActionBlock                   // Guard against an incoming punch
)

// Actions is the full action set in selection order.
// Greedy selection keeps the first of several equally valued actions,
// so this order is part of the simulation's reproducibility contract.
var Actions = []Action{ActionMoveLeft, ActionMoveRight, ActionPunch, ActionBlock}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionMoveLeft:
		return "Left"
	case ActionMoveRight:
		return "Right"
	case ActionPunch:
		return "Punch"
	case ActionBlock:
		return "Block"
	default:
		return "Unknown"
	}
}

// Short returns the single-letter code used in compact displays.
func (a Action) Short() string {
	switch a {
	case ActionMoveLeft:
		return "L"
	case ActionMoveRight:
		return "R"
	case ActionPunch:
		return "P"
	case ActionBlock:
		return "B"
	default:
		return "-"
	}
}

// Valid reports whether a is one of the four playable actions.
func (a Action) Valid() bool {
	return a >= ActionMoveLeft && a <= ActionBlock
}

// IsMoving reports whether the action relocates the fighter.
// Moving actions resolve in the first phase of a tick.
func (a Action) IsMoving() bool {
	return a == ActionMoveLeft || a == ActionMoveRight
}

// ColumnDelta returns the column offset applied by the action.
func (a Action) ColumnDelta() int {
	switch a {
	case ActionMoveLeft:
		return -1
	case ActionMoveRight:
		return 1
	default:
		return 0
	}
}
