package agent

import (
	"github.com/vovakirdan/qfighter/internal/core"
)

// BestAction picks the action for this tick and stores it as pending.
//
// With probability equal to the exploration rate a uniformly random action
// is drawn and the rate decays. Otherwise the action with the highest
// estimate against the opponent's current cell and last action wins; the
// first action in core.Actions order wins ties. Before the opponent has
// acted, each candidate is scored against an opponent action of the same
// label.
//
// A dead agent chooses nothing and returns ActionNone.
func (a *Agent) BestAction(opponent *Agent) core.Action {
	if !a.alive {
		a.pendingAction = core.ActionNone
		return core.ActionNone
	}

	if a.rng.Float64() < a.exploration {
		a.pendingAction = core.Actions[a.rng.Intn(len(core.Actions))]
		a.exploration *= a.decay
		return a.pendingAction
	}

	oppState, oppAction := observe(a, opponent)
	hasHistory := opponent != nil && opponent.HasActed()

	best := core.ActionNone
	bestValue := 0.0
	for _, action := range core.Actions {
		key := oppAction
		if !hasHistory {
			key = action
		}
		v := a.qtable.Get(Key{State: a.state, Action: action, OppState: oppState, OppAction: key})
		if best == core.ActionNone || v > bestValue {
			best = action
			bestValue = v
		}
	}

	a.pendingAction = best
	return best
}

// Update folds a resolved transition into the table and advances the
// agent's bookkeeping.
//
// The table is only updated once the opponent has acted at least once;
// before that the transition moves the agent but carries no learning
// signal. A non-playable action (the death path) never writes the table.
func (a *Agent) Update(action core.Action, newState core.Position, opponent *Agent, reward float64) {
	oppState, oppAction := observe(a, opponent)

	if oppAction != core.ActionNone && action.Valid() {
		k := Key{State: a.state, Action: action, OppState: oppState, OppAction: oppAction}
		maxNext := a.qtable.MaxAction(newState, oppState, oppAction)
		q := a.qtable.Get(k)
		a.qtable.Set(k, q+a.alpha*(reward+a.gamma*maxNext-q))
	}

	a.state = newState
	a.score += reward
	a.lastAction = a.pendingAction
	a.pendingAction = core.ActionNone
}
