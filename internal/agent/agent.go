// Package agent implements a fighter that learns with joint-state tabular
// Q-learning. Each agent exclusively owns its Q-table: only the agent's own
// Update (or adopting a loaded table) ever writes to it.
package agent

import (
	"math/rand"

	"github.com/vovakirdan/qfighter/internal/core"
)

// Learning defaults.
const (
	DefaultAlpha              = 0.8
	DefaultGamma              = 0.8
	DefaultInitialExploration = 1.0
	DefaultExplorationDecay   = 0.99
)

// Option configures an Agent at construction.
type Option func(*Agent)

// WithLearning sets the learning rate and discount factor.
func WithLearning(alpha, gamma float64) Option {
	return func(a *Agent) {
		a.alpha = alpha
		a.gamma = gamma
	}
}

// WithExploration sets the starting exploration rate and its per-draw decay.
func WithExploration(rate, decay float64) Option {
	return func(a *Agent) {
		a.exploration = rate
		a.decay = decay
	}
}

// WithQTable makes the agent adopt an existing table instead of a fresh one.
func WithQTable(q *QTable) Option {
	return func(a *Agent) {
		if q != nil {
			a.qtable = q
		}
	}
}

// WithRand injects the random source used for exploration.
func WithRand(rng *rand.Rand) Option {
	return func(a *Agent) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// Agent is one fighter: its position, health, score, exploration rate and
// learned table.
type Agent struct {
	index int
	state core.Position

	health int
	maxHP  int
	alive  bool

	score         float64
	lastAction    core.Action
	pendingAction core.Action

	alpha       float64
	gamma       float64
	exploration float64
	decay       float64

	qtable *QTable
	rng    *rand.Rand
}

// New creates an agent at start with full health.
func New(index int, start core.Position, maxHP int, opts ...Option) *Agent {
	a := &Agent{
		index:       index,
		state:       start,
		health:      maxHP,
		maxHP:       maxHP,
		alive:       maxHP > 0,
		alpha:       DefaultAlpha,
		gamma:       DefaultGamma,
		exploration: DefaultInitialExploration,
		decay:       DefaultExplorationDecay,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.qtable == nil {
		a.qtable = NewQTable()
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(int64(index) + 1))
	}
	return a
}

// Successor creates the next generation's agent at start. It keeps this
// agent's identity, Q-table object, exploration rate, learning parameters
// and random source; position, health, score and action history start over.
func (a *Agent) Successor(start core.Position) *Agent {
	return New(a.index, start, a.maxHP,
		WithQTable(a.qtable),
		WithLearning(a.alpha, a.gamma),
		WithExploration(a.exploration, a.decay),
		WithRand(a.rng),
	)
}

// Index returns the agent's identity within its population.
func (a *Agent) Index() int { return a.index }

// State returns the agent's current cell.
func (a *Agent) State() core.Position { return a.state }

// Health returns the remaining health.
func (a *Agent) Health() int { return a.health }

// MaxHP returns the health the agent spawns with.
func (a *Agent) MaxHP() int { return a.maxHP }

// Alive reports whether the agent is still fighting.
func (a *Agent) Alive() bool { return a.alive }

// Score returns the sum of all rewards received this generation.
func (a *Agent) Score() float64 { return a.score }

// LastAction returns the action resolved on the previous tick, or ActionNone.
func (a *Agent) LastAction() core.Action { return a.lastAction }

// PendingAction returns the action chosen for the current tick, or ActionNone.
func (a *Agent) PendingAction() core.Action { return a.pendingAction }

// Exploration returns the current exploration rate.
func (a *Agent) Exploration() float64 { return a.exploration }

// HasActed reports whether the agent has resolved at least one action.
func (a *Agent) HasActed() bool { return a.lastAction != core.ActionNone }

// SetHealth overrides the agent's health. The value is clamped to
// [0, current health] so health never rises outside a reset, and a dead
// agent stays dead.
func (a *Agent) SetHealth(h int) {
	if !a.alive {
		return
	}
	a.health = core.Clamp(h, 0, a.health)
	if a.health <= 0 {
		a.alive = false
	}
}

// Wound removes n health points and reports whether this wound killed the
// agent. Wounding a dead agent does nothing.
func (a *Agent) Wound(n int) bool {
	if !a.alive || n <= 0 {
		return false
	}
	a.SetHealth(a.health - n)
	return !a.alive
}

// Choose sets the pending action directly, bypassing the policy.
// Used by scripted drivers; a dead agent ignores it.
func (a *Agent) Choose(action core.Action) {
	if !a.alive {
		return
	}
	a.pendingAction = action
}

// QValue returns the agent's estimate for k.
func (a *Agent) QValue(k Key) float64 {
	return a.qtable.Get(k)
}

// QTableSize returns the number of stored estimates.
func (a *Agent) QTableSize() int {
	return a.qtable.Len()
}

// QTableFinite reports whether every stored estimate is finite.
func (a *Agent) QTableFinite() bool {
	return a.qtable.Finite()
}

// SnapshotQTable returns a deep copy of the agent's table.
func (a *Agent) SnapshotQTable() *QTable {
	return a.qtable.Clone()
}

// EncodeQTable serializes the agent's table.
func (a *Agent) EncodeQTable() ([]byte, error) {
	return a.qtable.MarshalBinary()
}

// AdoptQTable replaces the agent's table with q.
func (a *Agent) AdoptQTable(q *QTable) {
	if q == nil {
		q = NewQTable()
	}
	a.qtable = q
}

// observe returns the opponent cell and action key used to index the table.
// Without an opponent the agent observes itself with no history.
func observe(self, opponent *Agent) (core.Position, core.Action) {
	if opponent == nil {
		return self.state, core.ActionNone
	}
	return opponent.state, opponent.lastAction
}
