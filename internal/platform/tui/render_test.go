package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/qfighter/internal/agent"
	"github.com/vovakirdan/qfighter/internal/arena"
	"github.com/vovakirdan/qfighter/internal/core"
	"github.com/vovakirdan/qfighter/internal/fight"
)

func TestRenderArena(t *testing.T) {
	theme := DefaultTheme()
	ar := arena.MustParse("#  *   *  #")
	a := agent.New(0, core.P(0, 3), 10)
	b := agent.New(1, core.P(0, 7), 10)

	got := RenderArena(ar, []*agent.Agent{a, b}, theme)
	if !strings.Contains(got, "A") || !strings.Contains(got, "B") {
		t.Fatalf("arena should show both fighters, got %q", got)
	}
	if strings.Count(got, "█") != 2 {
		t.Errorf("expected 2 wall cells, got %q", got)
	}
	if strings.Index(got, "A") > strings.Index(got, "B") {
		t.Errorf("fighter A should be left of B, got %q", got)
	}
}

func TestRenderArenaCorpseUnderLivingFighter(t *testing.T) {
	theme := DefaultTheme()
	ar := arena.MustParse("#  *   *  #")
	dead := agent.New(0, core.P(0, 3), 10)
	dead.SetHealth(0)
	alive := agent.New(1, core.P(0, 3), 10)

	got := RenderArena(ar, []*agent.Agent{dead, alive}, theme)
	if strings.Contains(got, "x") {
		t.Errorf("living fighter should hide the corpse, got %q", got)
	}
	if !strings.Contains(got, "B") {
		t.Errorf("living fighter missing, got %q", got)
	}

	got = RenderArena(ar, []*agent.Agent{dead}, theme)
	if !strings.Contains(got, "x") {
		t.Errorf("corpse missing, got %q", got)
	}
}

func TestRenderArenaIrregularRows(t *testing.T) {
	ar := arena.MustParse("#*  *#\n##")
	got := RenderArena(ar, nil, DefaultTheme())

	lines := strings.Split(got, "\n")
	if len(lines) != ar.Height() {
		t.Fatalf("expected %d lines, got %d", ar.Height(), len(lines))
	}
	if !strings.HasPrefix(lines[1], "██") {
		t.Errorf("second row should start with walls, got %q", lines[1])
	}
}

func TestRenderHPBar(t *testing.T) {
	theme := DefaultTheme()
	tests := []struct {
		name   string
		health int
		maxHP  int
		filled int
	}{
		{"full", 10, 10, hpBarWidth},
		{"half", 5, 10, hpBarWidth / 2},
		{"empty", 0, 10, 0},
		{"sliver stays visible", 1, 100, 1},
		{"no max", 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderHPBar(tt.health, tt.maxHP, theme)
			if n := strings.Count(got, "█"); n != tt.filled {
				t.Errorf("filled = %d, want %d (%q)", n, tt.filled, got)
			}
			if n := strings.Count(got, "░"); n != hpBarWidth-tt.filled {
				t.Errorf("empty = %d, want %d (%q)", n, hpBarWidth-tt.filled, got)
			}
		})
	}
}

func TestRenderOutcome(t *testing.T) {
	got := RenderOutcome(fight.Outcome{
		Agent:  1,
		Action: core.ActionPunch,
		Kind:   fight.KindAttack,
		Reward: 30,
	})
	for _, want := range []string{"B P", "hit", "+30.0"} {
		if !strings.Contains(got, want) {
			t.Errorf("outcome %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "→") {
		t.Errorf("a punch should not show a move: %q", got)
	}

	got = RenderOutcome(fight.Outcome{
		Agent:  0,
		Action: core.ActionMoveRight,
		Kind:   fight.KindEmpty,
		Reward: -1,
		From:   core.P(0, 3),
		To:     core.P(0, 4),
	})
	if !strings.Contains(got, "A R") || !strings.Contains(got, "→ "+core.P(0, 4).String()) {
		t.Errorf("move outcome = %q", got)
	}
}

func TestRenderHUD(t *testing.T) {
	theme := DefaultTheme()

	got := RenderHUD(3, 12, 5000, false, true, 10, theme)
	for _, want := range []string{"gen 3", "12/5000", "first B", "PAUSED"} {
		if !strings.Contains(got, want) {
			t.Errorf("HUD %q missing %q", got, want)
		}
	}

	got = RenderHUD(1, 0, 5000, true, false, 10, theme)
	if strings.Contains(got, "PAUSED") {
		t.Errorf("HUD should not show PAUSED while running: %q", got)
	}
}
