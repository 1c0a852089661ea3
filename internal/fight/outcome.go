package fight

import "github.com/vovakirdan/qfighter/internal/core"

// Kind classifies how an action was resolved.
type Kind uint8

const (
	KindDeath         Kind = iota // Acting agent was already dead
	KindOut                       // Off the table, into a wall or into another fighter
	KindEmpty                     // Legal move
	KindBlock                     // Block with no incoming punch
	KindBlockAttack               // Block against an adjacent punch
	KindAttack                    // Punch landed on at least one fighter
	KindTouchBlocking             // Punch absorbed by a block
	KindTouchEmpty                // Punch with nobody adjacent
)

// String returns the outcome name shown in event logs.
func (k Kind) String() string {
	switch k {
	case KindDeath:
		return "death"
	case KindOut:
		return "out"
	case KindEmpty:
		return "move"
	case KindBlock:
		return "block"
	case KindBlockAttack:
		return "block-attack"
	case KindAttack:
		return "hit"
	case KindTouchBlocking:
		return "blocked"
	case KindTouchEmpty:
		return "miss"
	default:
		return "unknown"
	}
}

// Outcome describes one resolved action.
type Outcome struct {
	Agent  int
	Action core.Action
	Kind   Kind
	Reward float64
	From   core.Position
	To     core.Position
	Hits   int // Fighters that lost health
	Kills  int // Fighters killed by this action
}

// Moved reports whether the action relocated the agent.
func (o Outcome) Moved() bool {
	return o.From != o.To
}
