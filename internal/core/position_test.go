package core

import "testing"

func TestPositionAdjacent(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Position
		expected bool
	}{
		{
			name:     "right neighbour",
			a:        P(0, 3),
			b:        P(0, 4),
			expected: true,
		},
		{
			name:     "left neighbour",
			a:        P(2, 5),
			b:        P(2, 4),
			expected: true,
		},
		{
			name:     "same cell",
			a:        P(0, 3),
			b:        P(0, 3),
			expected: false,
		},
		{
			name:     "two columns away",
			a:        P(0, 3),
			b:        P(0, 5),
			expected: false,
		},
		{
			name:     "vertical neighbour is not on the row",
			a:        P(0, 3),
			b:        P(1, 3),
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Adjacent(tc.b); got != tc.expected {
				t.Errorf("Adjacent() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestPositionApply(t *testing.T) {
	start := P(1, 4)

	if got := start.Apply(ActionMoveLeft); got != P(1, 3) {
		t.Errorf("MoveLeft target = %v, expected (1,3)", got)
	}
	if got := start.Apply(ActionMoveRight); got != P(1, 5) {
		t.Errorf("MoveRight target = %v, expected (1,5)", got)
	}
	if got := start.Apply(ActionPunch); got != start {
		t.Errorf("Punch target = %v, expected unchanged", got)
	}
	if got := start.Apply(ActionBlock); got != start {
		t.Errorf("Block target = %v, expected unchanged", got)
	}
}

func TestActionClassification(t *testing.T) {
	if ActionNone.Valid() {
		t.Error("ActionNone should not be valid")
	}
	if Action(42).Valid() {
		t.Error("out-of-range action should not be valid")
	}
	for _, a := range Actions {
		if !a.Valid() {
			t.Errorf("%v should be valid", a)
		}
	}

	if !ActionMoveLeft.IsMoving() || !ActionMoveRight.IsMoving() {
		t.Error("left/right should be moving actions")
	}
	if ActionPunch.IsMoving() || ActionBlock.IsMoving() {
		t.Error("punch/block should not be moving actions")
	}

	if Action(42).String() != "Unknown" {
		t.Errorf("expected Unknown, got %q", Action(42).String())
	}
}

func TestPositionLess(t *testing.T) {
	if !P(0, 9).Less(P(1, 0)) {
		t.Error("row 0 should sort before row 1")
	}
	if !P(1, 2).Less(P(1, 3)) {
		t.Error("lower column should sort first on the same row")
	}
	if P(1, 3).Less(P(1, 3)) {
		t.Error("position should not be less than itself")
	}
}
