// Package fight resolves one agent's pending action against the arena and
// the other fighters, assigns its reward and feeds the transition back into
// the agent's learning update.
package fight

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/qfighter/internal/agent"
	"github.com/vovakirdan/qfighter/internal/arena"
	"github.com/vovakirdan/qfighter/internal/core"
)

// ErrInvalidAction is returned when a living agent has no playable pending action.
var ErrInvalidAction = errors.New("fight: invalid action")

// Environment owns the arena, the reward table and a view of the fighters
// currently in play. It is built once and shared with the population that
// drives it.
type Environment struct {
	arena   *arena.Arena
	rewards Rewards
	agents  []*agent.Agent
}

// NewEnvironment creates an environment over a parsed arena.
func NewEnvironment(a *arena.Arena, rewards Rewards) *Environment {
	return &Environment{arena: a, rewards: rewards}
}

// Arena returns the arena the environment resolves against.
func (e *Environment) Arena() *arena.Arena { return e.arena }

// Rewards returns the reward table in use.
func (e *Environment) Rewards() Rewards { return e.rewards }

// Bind sets the fighters considered for collisions and attacks.
func (e *Environment) Bind(agents []*agent.Agent) {
	e.agents = agents
}

// Apply resolves the agent's pending action and returns its reward.
func (e *Environment) Apply(a, opponent *agent.Agent) (float64, error) {
	out, err := e.Resolve(a, opponent)
	if err != nil {
		return 0, err
	}
	return out.Reward, nil
}

// Resolve resolves the agent's pending action, updates the agent and
// returns the full outcome.
func (e *Environment) Resolve(a, opponent *agent.Agent) (Outcome, error) {
	action := a.PendingAction()
	out := Outcome{Agent: a.Index(), Action: action, From: a.State(), To: a.State()}

	if !a.Alive() {
		out.Kind = KindDeath
		out.Reward = e.rewards.Death
		a.Update(action, a.State(), opponent, out.Reward)
		return out, nil
	}
	if !action.Valid() {
		return Outcome{}, fmt.Errorf("%w: agent %d has %v", ErrInvalidAction, a.Index(), action)
	}

	target := a.State().Apply(action)

	switch {
	case !e.arena.Contains(target), e.arena.IsWall(target), e.occupied(a, target):
		out.Kind = KindOut
		out.Reward = e.rewards.Out
	case action == core.ActionPunch && e.nearby(a.State(), a):
		e.attack(a, target, &out)
	case action == core.ActionPunch:
		out.Kind = KindTouchEmpty
		out.Reward = e.rewards.TouchEmpty
	case action == core.ActionBlock:
		if e.incomingPunch(opponent) {
			out.Kind = KindBlockAttack
			out.Reward = e.rewards.BlockAttack
		} else {
			out.Kind = KindBlock
			out.Reward = e.rewards.Block
		}
	default:
		out.Kind = KindEmpty
		out.Reward = e.rewards.Empty
		out.To = target
	}

	a.Update(action, out.To, opponent, out.Reward)
	return out, nil
}

// occupied reports whether another living fighter stands on pos.
func (e *Environment) occupied(self *agent.Agent, pos core.Position) bool {
	for _, other := range e.agents {
		if other != self && other.Alive() && other.State() == pos {
			return true
		}
	}
	return false
}

// nearby reports whether another living fighter is adjacent to pos.
func (e *Environment) nearby(pos core.Position, self *agent.Agent) bool {
	for _, other := range e.agents {
		if other != self && other.Alive() && pos.Adjacent(other.State()) {
			return true
		}
	}
	return false
}

// attack hits every adjacent living fighter that is not standing on target.
// A fighter whose pending action is Block absorbs the punch.
func (e *Environment) attack(a *agent.Agent, target core.Position, out *Outcome) {
	blocked := 0
	for _, other := range e.agents {
		if other == a || !other.Alive() || other.State() == target || !a.State().Adjacent(other.State()) {
			continue
		}
		if other.PendingAction() == core.ActionBlock {
			out.Reward += e.rewards.TouchBlocking
			blocked++
			continue
		}
		out.Reward += e.rewards.Wound
		out.Hits++
		if other.Wound(1) {
			out.Reward += e.rewards.Kill
			out.Kills++
		}
	}

	out.Kind = KindAttack
	if out.Hits == 0 && blocked > 0 {
		out.Kind = KindTouchBlocking
	}
}

// incomingPunch reports whether the opponent's punch lands next to a blocker
// this tick. An opponent that already resolved is judged on its last action.
func (e *Environment) incomingPunch(opponent *agent.Agent) bool {
	if opponent == nil {
		return false
	}
	punch := opponent.PendingAction()
	if punch == core.ActionNone {
		punch = opponent.LastAction()
	}
	return punch == core.ActionPunch && e.nearby(opponent.State(), opponent)
}
