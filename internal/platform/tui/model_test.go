package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/qfighter/internal/config"
	"github.com/vovakirdan/qfighter/internal/storage"
	"github.com/vovakirdan/qfighter/internal/training"
)

func newTestModel(t *testing.T, opts WatchOptions) WatchModel {
	t.Helper()
	cfg := config.DefaultFighterConfig()
	mgr, err := training.NewManager(cfg, 1)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return NewWatchModel(training.NewSession(mgr), opts)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m WatchModel, msg tea.Msg) WatchModel {
	t.Helper()
	next, _ := m.Update(msg)
	wm, ok := next.(WatchModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return wm
}

func TestWatchTickAdvancesSession(t *testing.T) {
	m := newTestModel(t, WatchOptions{})

	m = send(t, m, TickMsg{})
	if got := m.session.Tick(); got != 1 {
		t.Fatalf("tick = %d, want 1", got)
	}
	if len(m.events) == 0 {
		t.Error("expected events after a tick")
	}
}

func TestWatchPauseAndStep(t *testing.T) {
	m := newTestModel(t, WatchOptions{})

	m = send(t, m, keyMsg(" "))
	if !m.Paused() {
		t.Fatal("space should pause")
	}

	m = send(t, m, TickMsg{})
	if got := m.session.Tick(); got != 0 {
		t.Fatalf("paused tick = %d, want 0", got)
	}

	m = send(t, m, keyMsg("n"))
	if got := m.session.Tick(); got != 1 {
		t.Fatalf("step tick = %d, want 1", got)
	}

	m = send(t, m, keyMsg(" "))
	if m.Paused() {
		t.Error("space should resume")
	}
	m = send(t, m, keyMsg("n"))
	if got := m.session.Tick(); got != 1 {
		t.Errorf("step while running should do nothing, tick = %d", got)
	}
}

func TestWatchSpeedLimits(t *testing.T) {
	m := newTestModel(t, WatchOptions{TickRate: 10})

	for i := 0; i < 10; i++ {
		m = send(t, m, keyMsg("+"))
	}
	if m.tickRate != maxTickRate {
		t.Errorf("tickRate = %d, want %d", m.tickRate, maxTickRate)
	}
	for i := 0; i < 10; i++ {
		m = send(t, m, keyMsg("-"))
	}
	if m.tickRate != minTickRate {
		t.Errorf("tickRate = %d, want %d", m.tickRate, minTickRate)
	}
}

func TestWatchPriorityToggle(t *testing.T) {
	m := newTestModel(t, WatchOptions{})
	if !m.session.Manager().Priority() {
		t.Fatal("fighter A should resolve first by default")
	}

	m = send(t, m, keyMsg("p"))
	if m.session.Manager().Priority() {
		t.Error("p should hand priority to fighter B")
	}
	if !strings.Contains(m.Status(), "B") {
		t.Errorf("status = %q", m.Status())
	}
}

func TestWatchResetRespawns(t *testing.T) {
	m := newTestModel(t, WatchOptions{})
	spawns := m.session.Manager().Environment().Arena().Spawns()

	for i := 0; i < 3; i++ {
		m = send(t, m, TickMsg{})
	}
	m = send(t, m, keyMsg("r"))

	if got := m.session.Tick(); got != 0 {
		t.Errorf("tick after reset = %d, want 0", got)
	}
	for i, a := range m.session.Manager().Agents() {
		if a.State() != spawns[i] {
			t.Errorf("agent %d at %v, want spawn %v", i, a.State(), spawns[i])
		}
	}
	if len(m.events) != 0 {
		t.Error("reset should clear the event log")
	}
}

func TestWatchSaveDisabled(t *testing.T) {
	m := newTestModel(t, WatchOptions{AllowSave: false})

	m = send(t, m, keyMsg("s"))
	if m.Status() != "" {
		t.Errorf("save should be ignored, status = %q", m.Status())
	}
}

func TestWatchLoadWithoutStore(t *testing.T) {
	m := newTestModel(t, WatchOptions{})

	m = send(t, m, keyMsg("1"))
	if !m.statusErr {
		t.Errorf("loading without a store should fail, status = %q", m.Status())
	}

	m = send(t, m, keyMsg("f"))
	if m.statusErr {
		t.Errorf("forgetting tables should work without a store: %q", m.Status())
	}
	if m.session.Manager().Agent(0).QTableSize() != 0 {
		t.Error("tables should be empty after f")
	}
}

type stubHistory struct {
	records []storage.GenerationRecord
	err     error
}

func (s stubHistory) History(context.Context, int) ([]storage.GenerationRecord, error) {
	return s.records, s.err
}

func TestWatchHistory(t *testing.T) {
	records := []storage.GenerationRecord{
		{Generation: 1, Ticks: 40, Winner: 0, Scores: []float64{120, -80}, Exploration: []float64{0.9, 0.9}},
		{Generation: 2, Ticks: 5000, Winner: -1, Scores: []float64{-10, -12}, Exploration: []float64{0.5, 0.5}},
	}
	m := newTestModel(t, WatchOptions{History: stubHistory{records: records}})
	if len(m.Records()) != 2 {
		t.Fatalf("records = %d, want 2", len(m.Records()))
	}

	rows := historyRows(m.Records(), 2)
	if rows[0][0] != "2" || rows[0][2] != "draw" {
		t.Errorf("newest row = %v", rows[0])
	}
	if rows[1][2] != "A" || rows[1][3] != "120.0" {
		t.Errorf("oldest row = %v", rows[1])
	}

	m = send(t, m, keyMsg("h"))
	if !strings.Contains(m.View(), "draw") {
		t.Error("history view should list the draw")
	}
}

func TestWatchHistoryError(t *testing.T) {
	m := newTestModel(t, WatchOptions{History: stubHistory{err: errors.New("db locked")}})
	if !strings.Contains(m.Status(), "db locked") {
		t.Errorf("status = %q", m.Status())
	}
}

func TestWatchQuit(t *testing.T) {
	m := newTestModel(t, WatchOptions{})

	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if next.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
