package agent

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/qfighter/internal/core"
)

func greedyAgent(index int, start core.Position) *Agent {
	return New(index, start, 10,
		WithExploration(0, DefaultExplorationDecay),
		WithRand(rand.New(rand.NewSource(7))),
	)
}

func TestNewAgentDefaults(t *testing.T) {
	a := New(0, core.P(0, 3), 10)

	if a.Health() != 10 || !a.Alive() {
		t.Errorf("expected full health and alive, got %d/%v", a.Health(), a.Alive())
	}
	if a.Exploration() != 1.0 {
		t.Errorf("expected exploration 1.0, got %v", a.Exploration())
	}
	if a.LastAction() != core.ActionNone || a.PendingAction() != core.ActionNone {
		t.Error("expected no action history")
	}
	if a.QTableSize() != 0 {
		t.Errorf("expected empty table, got %d entries", a.QTableSize())
	}
}

func TestGreedyTieKeepsFirstAction(t *testing.T) {
	a := greedyAgent(0, core.P(0, 3))
	opp := greedyAgent(1, core.P(0, 7))

	if got := a.BestAction(opp); got != core.ActionMoveLeft {
		t.Errorf("all-zero table should pick first action, got %v", got)
	}
	if a.PendingAction() != core.ActionMoveLeft {
		t.Error("BestAction should store the pending action")
	}
	if a.State() != core.P(0, 3) || a.Score() != 0 {
		t.Error("BestAction must not move or score")
	}
}

func TestGreedyUsesOpponentLastAction(t *testing.T) {
	a := greedyAgent(0, core.P(0, 3))
	opp := greedyAgent(1, core.P(0, 7))
	opp.lastAction = core.ActionBlock

	a.qtable.Set(Key{State: a.state, Action: core.ActionPunch, OppState: opp.state, OppAction: core.ActionBlock}, 4)
	a.qtable.Set(Key{State: a.state, Action: core.ActionBlock, OppState: opp.state, OppAction: core.ActionPunch}, 99)

	if got := a.BestAction(opp); got != core.ActionPunch {
		t.Errorf("expected Punch against a blocking opponent, got %v", got)
	}
}

func TestGreedyFallbackWithoutOpponentHistory(t *testing.T) {
	a := greedyAgent(0, core.P(0, 3))
	opp := greedyAgent(1, core.P(0, 7))

	// Each candidate is scored against the same-label opponent action.
	a.qtable.Set(Key{State: a.state, Action: core.ActionPunch, OppState: opp.state, OppAction: core.ActionPunch}, 5)
	a.qtable.Set(Key{State: a.state, Action: core.ActionBlock, OppState: opp.state, OppAction: core.ActionPunch}, 9)

	if got := a.BestAction(opp); got != core.ActionPunch {
		t.Errorf("expected Punch under same-label fallback, got %v", got)
	}
}

func TestExplorationDecaysOnEveryRandomDraw(t *testing.T) {
	a := New(0, core.P(0, 3), 10, WithRand(rand.New(rand.NewSource(3))))
	opp := New(1, core.P(0, 7), 10)

	// Exploration starts at 1.0, so the first draw is always random.
	expected := 1.0
	prev := a.Exploration()
	for i := 0; i < 500; i++ {
		before := a.Exploration()
		a.BestAction(opp)
		after := a.Exploration()

		if after > prev {
			t.Fatalf("exploration increased at step %d: %v -> %v", i, prev, after)
		}
		if after != before {
			expected *= DefaultExplorationDecay
			if after != expected {
				t.Fatalf("step %d: exploration %v, expected %v", i, after, expected)
			}
		}
		prev = after
		a.pendingAction = core.ActionNone
	}

	if a.Exploration() >= 1.0 {
		t.Error("exploration should have decayed")
	}
}

func TestFirstDrawIsRandomAndDecays(t *testing.T) {
	a := New(0, core.P(0, 3), 10, WithRand(rand.New(rand.NewSource(11))))
	a.BestAction(nil)

	if a.Exploration() != 0.99 {
		t.Errorf("expected exploration 0.99 after one random draw, got %v", a.Exploration())
	}
	if !a.PendingAction().Valid() {
		t.Errorf("random draw should pick a playable action, got %v", a.PendingAction())
	}
}

func TestUpdateWithoutOpponentHistoryDoesNotLearn(t *testing.T) {
	a := greedyAgent(0, core.P(0, 3))
	opp := greedyAgent(1, core.P(0, 7))

	a.Choose(core.ActionMoveRight)
	a.Update(core.ActionMoveRight, core.P(0, 4), opp, -1)

	if a.QTableSize() != 0 {
		t.Errorf("expected no table writes, got %d entries", a.QTableSize())
	}
	if a.State() != core.P(0, 4) {
		t.Errorf("expected state (0,4), got %v", a.State())
	}
	if a.Score() != -1 {
		t.Errorf("expected score -1, got %v", a.Score())
	}
	if a.LastAction() != core.ActionMoveRight {
		t.Errorf("expected last action Right, got %v", a.LastAction())
	}
	if a.PendingAction() != core.ActionNone {
		t.Error("pending action should be cleared")
	}
}

func TestUpdateHandComputed(t *testing.T) {
	a := New(0, core.P(0, 3), 10,
		WithExploration(0, DefaultExplorationDecay),
		WithLearning(0.5, 0.5),
	)
	opp := greedyAgent(1, core.P(0, 7))
	opp.lastAction = core.ActionBlock

	// Q[(0,3)][Punch][(0,7)][Block] = 0 + 0.5*(-4 + 0.5*0 - 0) = -2
	a.Choose(core.ActionPunch)
	a.Update(core.ActionPunch, core.P(0, 3), opp, -4)

	k1 := Key{State: core.P(0, 3), Action: core.ActionPunch, OppState: core.P(0, 7), OppAction: core.ActionBlock}
	if got := a.QValue(k1); got != -2 {
		t.Errorf("first update: got %v, expected -2", got)
	}

	// Seed the successor state: max over (0,4) is 10.
	a.qtable.Set(Key{State: core.P(0, 4), Action: core.ActionBlock, OppState: core.P(0, 7), OppAction: core.ActionBlock}, 10)

	// Q[(0,3)][Right][(0,7)][Block] = 0 + 0.5*(-1 + 0.5*10 - 0) = 2
	a.Choose(core.ActionMoveRight)
	a.Update(core.ActionMoveRight, core.P(0, 4), opp, -1)

	k2 := Key{State: core.P(0, 3), Action: core.ActionMoveRight, OppState: core.P(0, 7), OppAction: core.ActionBlock}
	if got := a.QValue(k2); got != 2 {
		t.Errorf("second update: got %v, expected 2", got)
	}

	// Repeat the punch from (0,3), whose best estimate is now Right at 2:
	// -2 + 0.5*(-4 + 0.5*2 - (-2)) = -2.5
	a.state = core.P(0, 3)
	a.Choose(core.ActionPunch)
	a.Update(core.ActionPunch, core.P(0, 3), opp, -4)
	if got := a.QValue(k1); got != -2.5 {
		t.Errorf("third update: got %v, expected -2.5", got)
	}

	if a.Score() != -9 {
		t.Errorf("expected cumulative score -9, got %v", a.Score())
	}
}

func TestUpdateUsesTrueMaxOverNegativeEstimates(t *testing.T) {
	a := New(0, core.P(0, 3), 10,
		WithExploration(0, DefaultExplorationDecay),
		WithLearning(0.5, 0.5),
	)
	opp := greedyAgent(1, core.P(0, 7))
	opp.lastAction = core.ActionPunch

	next := core.P(0, 4)
	for _, act := range core.Actions {
		a.qtable.Set(Key{State: next, Action: act, OppState: opp.state, OppAction: core.ActionPunch}, -8)
	}

	// 0 + 0.5*(-1 + 0.5*(-8) - 0) = -2.5
	a.Choose(core.ActionMoveRight)
	a.Update(core.ActionMoveRight, next, opp, -1)

	k := Key{State: core.P(0, 3), Action: core.ActionMoveRight, OppState: opp.state, OppAction: core.ActionPunch}
	if got := a.QValue(k); got != -2.5 {
		t.Errorf("got %v, expected -2.5", got)
	}
}

func TestDefaultLearningRates(t *testing.T) {
	a := greedyAgent(0, core.P(0, 3))
	opp := greedyAgent(1, core.P(0, 7))
	opp.lastAction = core.ActionMoveLeft

	a.Choose(core.ActionBlock)
	a.Update(core.ActionBlock, core.P(0, 3), opp, -5)

	k := Key{State: core.P(0, 3), Action: core.ActionBlock, OppState: opp.state, OppAction: core.ActionMoveLeft}
	if got := a.QValue(k); math.Abs(got-(-4)) > 1e-12 {
		t.Errorf("got %v, expected -4 (0.8 * -5)", got)
	}
}

func TestDeadAgentChoosesNothing(t *testing.T) {
	a := greedyAgent(0, core.P(0, 3))
	a.SetHealth(0)

	if a.Alive() {
		t.Fatal("agent with 0 health should be dead")
	}
	if got := a.BestAction(nil); got != core.ActionNone {
		t.Errorf("dead agent chose %v", got)
	}
	a.Choose(core.ActionPunch)
	if a.PendingAction() != core.ActionNone {
		t.Error("dead agent should ignore scripted actions")
	}
}

func TestHealthNeverRevives(t *testing.T) {
	a := greedyAgent(0, core.P(0, 3))

	a.SetHealth(15)
	if a.Health() != 10 {
		t.Errorf("health must not rise above current, got %d", a.Health())
	}

	if killed := a.Wound(3); killed {
		t.Error("3 damage should not kill")
	}
	if a.Health() != 7 {
		t.Errorf("expected 7 health, got %d", a.Health())
	}

	a.SetHealth(9)
	if a.Health() != 7 {
		t.Errorf("health must be non-increasing, got %d", a.Health())
	}

	if killed := a.Wound(7); !killed {
		t.Error("expected lethal wound to report a kill")
	}
	if a.Alive() {
		t.Error("expected agent to be dead")
	}
	if killed := a.Wound(1); killed {
		t.Error("a dead agent cannot be killed twice")
	}

	a.SetHealth(10)
	if a.Alive() || a.Health() != 0 {
		t.Errorf("dead agent revived: alive=%v health=%d", a.Alive(), a.Health())
	}
}

func TestSuccessorKeepsTableAndExploration(t *testing.T) {
	a := New(1, core.P(0, 3), 10, WithExploration(0.5, 0.9))
	k := Key{State: core.P(0, 3), Action: core.ActionPunch, OppState: core.P(0, 4), OppAction: core.ActionBlock}
	a.qtable.Set(k, 12.5)
	a.Wound(4)
	a.score = 40
	a.lastAction = core.ActionPunch

	next := a.Successor(core.P(0, 7))

	if next.qtable != a.qtable {
		t.Error("successor should reuse the same table object")
	}
	if next.QValue(k) != 12.5 {
		t.Error("successor lost learned values")
	}
	if next.Exploration() != 0.5 {
		t.Errorf("successor exploration = %v, expected 0.5", next.Exploration())
	}
	if next.Index() != 1 || next.State() != core.P(0, 7) {
		t.Errorf("unexpected identity/position: %d %v", next.Index(), next.State())
	}
	if next.Health() != 10 || next.Score() != 0 || next.LastAction() != core.ActionNone {
		t.Error("successor should start with full health, zero score and no history")
	}
}
