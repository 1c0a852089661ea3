// Package population runs a fixed group of fighters through ticks and
// generations: action selection, two-phase resolution, termination and
// respawning with learned tables carried over.
package population

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vovakirdan/qfighter/internal/agent"
	"github.com/vovakirdan/qfighter/internal/core"
	"github.com/vovakirdan/qfighter/internal/fight"
)

// Defaults for a new population.
const (
	DefaultPopulation = 2
	DefaultMaxHP      = 10
)

var (
	// ErrTooManyAgents is returned when the arena has fewer spawns than fighters.
	ErrTooManyAgents = errors.New("population: more agents than spawn points")
	// ErrNoAgents is returned for a population size below one.
	ErrNoAgents = errors.New("population: need at least one agent")
)

// RivalSelector picks the opponent an agent observes and learns against.
// It returns nil when the agent has nobody to face.
type RivalSelector func(self *agent.Agent, agents []*agent.Agent) *agent.Agent

// Option configures a Manager.
type Option func(*settings)

type settings struct {
	population int
	maxHP      int
	seed       int64
	priority   bool
	rival      RivalSelector
	agentOpts  []agent.Option
}

// WithPopulation sets the number of fighters.
func WithPopulation(n int) Option {
	return func(s *settings) { s.population = n }
}

// WithMaxHP sets the health every fighter spawns with.
func WithMaxHP(hp int) Option {
	return func(s *settings) { s.maxHP = hp }
}

// WithSeed seeds the fighters' random sources. Fighter i draws from seed+i.
func WithSeed(seed int64) Option {
	return func(s *settings) { s.seed = seed }
}

// WithPriority sets the initial resolution order flag.
func WithPriority(first bool) Option {
	return func(s *settings) { s.priority = first }
}

// WithRivalSelector replaces the default opponent choice.
func WithRivalSelector(fn RivalSelector) Option {
	return func(s *settings) { s.rival = fn }
}

// WithAgentOptions passes extra options to every fighter at creation.
func WithAgentOptions(opts ...agent.Option) Option {
	return func(s *settings) { s.agentOpts = append(s.agentOpts, opts...) }
}

// Manager owns the fighters of one simulation.
type Manager struct {
	env      *fight.Environment
	agents   []*agent.Agent
	priority bool
	rival    RivalSelector
}

// New creates the fighters on the arena's spawn points, in spawn order.
func New(env *fight.Environment, opts ...Option) (*Manager, error) {
	s := settings{
		population: DefaultPopulation,
		maxHP:      DefaultMaxHP,
		seed:       1,
		priority:   true,
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.population < 1 {
		return nil, ErrNoAgents
	}
	spawns := env.Arena().Spawns()
	if s.population > len(spawns) {
		return nil, fmt.Errorf("%w: %d agents, %d spawns", ErrTooManyAgents, s.population, len(spawns))
	}

	m := &Manager{
		env:      env,
		agents:   make([]*agent.Agent, s.population),
		priority: s.priority,
		rival:    s.rival,
	}
	for i := range m.agents {
		aopts := append([]agent.Option{}, s.agentOpts...)
		aopts = append(aopts, agent.WithRand(rand.New(rand.NewSource(s.seed+int64(i)))))
		m.agents[i] = agent.New(i, spawns[i], s.maxHP, aopts...)
	}
	env.Bind(m.agents)
	return m, nil
}

// Environment returns the resolver the manager drives.
func (m *Manager) Environment() *fight.Environment { return m.env }

// Agents returns all fighters in index order.
func (m *Manager) Agents() []*agent.Agent { return m.agents }

// Agent returns fighter i.
func (m *Manager) Agent(i int) *agent.Agent { return m.agents[i] }

// Len returns the population size.
func (m *Manager) Len() int { return len(m.agents) }

// AliveAgents returns the living fighters in index order.
func (m *Manager) AliveAgents() []*agent.Agent {
	alive := make([]*agent.Agent, 0, len(m.agents))
	for _, a := range m.agents {
		if a.Alive() {
			alive = append(alive, a)
		}
	}
	return alive
}

// Goal reports whether the generation is over: at most one fighter stands.
func (m *Manager) Goal() bool {
	return len(m.AliveAgents()) <= 1
}

// Winner returns the last fighter standing, or nil while the fight is on
// or when nobody survived.
func (m *Manager) Winner() *agent.Agent {
	alive := m.AliveAgents()
	if len(alive) != 1 {
		return nil
	}
	return alive[0]
}

// Opponent returns the rival a faces: the first other living fighter, or
// the first other fighter when all others are dead.
func (m *Manager) Opponent(a *agent.Agent) *agent.Agent {
	if m.rival != nil {
		return m.rival(a, m.agents)
	}
	return FirstOther(a, m.agents)
}

// FirstOther is the default RivalSelector.
func FirstOther(self *agent.Agent, agents []*agent.Agent) *agent.Agent {
	var fallback *agent.Agent
	for _, other := range agents {
		if other == self {
			continue
		}
		if other.Alive() {
			return other
		}
		if fallback == nil {
			fallback = other
		}
	}
	return fallback
}

// Priority reports whether fighters resolve in index order.
func (m *Manager) Priority() bool { return m.priority }

// SetPriority sets the resolution order flag.
func (m *Manager) SetPriority(first bool) { m.priority = first }

// TogglePriority flips the resolution order and returns the new value.
func (m *Manager) TogglePriority() bool {
	m.priority = !m.priority
	return m.priority
}

// BestActions lets every living fighter choose its action for this tick.
func (m *Manager) BestActions() {
	for _, a := range m.agents {
		if a.Alive() {
			a.BestAction(m.Opponent(a))
		}
	}
}

// order returns agents in resolution order. Without priority the list is
// rotated by one so the second fighter goes first.
func (m *Manager) order(agents []*agent.Agent) []*agent.Agent {
	if m.priority || len(agents) < 2 {
		return agents
	}
	rotated := make([]*agent.Agent, len(agents))
	for i := range agents {
		rotated[i] = agents[(i+1)%len(agents)]
	}
	return rotated
}

// ApplyActions resolves the pending actions of agents in two phases: all
// moves first, then punches and blocks. Agents without a pending action
// are skipped. The list is not re-filtered, so a fighter killed earlier in
// the phase resolves as dead.
func (m *Manager) ApplyActions(agents []*agent.Agent) ([]fight.Outcome, error) {
	ordered := m.order(agents)
	outcomes := make([]fight.Outcome, 0, len(ordered))

	for _, a := range ordered {
		if !a.PendingAction().IsMoving() {
			continue
		}
		out, err := m.env.Resolve(a, m.Opponent(a))
		if err != nil {
			return outcomes, fmt.Errorf("population: move phase: %w", err)
		}
		outcomes = append(outcomes, out)
	}

	for _, a := range ordered {
		act := a.PendingAction()
		if act.IsMoving() || act == core.ActionNone {
			continue
		}
		out, err := m.env.Resolve(a, m.Opponent(a))
		if err != nil {
			return outcomes, fmt.Errorf("population: action phase: %w", err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// TickResult summarizes one tick.
type TickResult struct {
	Outcomes []fight.Outcome
	Rewards  []float64 // Indexed by agent index
	Done     bool
}

// Tick runs selection, resolution over the fighters alive at the start of
// the tick, and the termination check.
func (m *Manager) Tick() (TickResult, error) {
	m.BestActions()

	outcomes, err := m.ApplyActions(m.AliveAgents())
	if err != nil {
		return TickResult{}, err
	}

	res := TickResult{
		Outcomes: outcomes,
		Rewards:  make([]float64, len(m.agents)),
		Done:     m.Goal(),
	}
	for _, out := range outcomes {
		res.Rewards[out.Agent] += out.Reward
	}
	return res, nil
}

// Reset starts a new generation: every fighter respawns with full health,
// zero score and no history, keeping its table and exploration rate.
func (m *Manager) Reset() {
	spawns := m.env.Arena().Spawns()
	for i, a := range m.agents {
		m.agents[i] = a.Successor(spawns[i])
	}
	m.env.Bind(m.agents)
}
