package training

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/qfighter/internal/config"
)

func TestTrainerRunsGenerations(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})

	store := newMemStore()
	rec := &memRecorder{}
	mgr := testManager(t, func(c *config.FighterConfig) {
		c.Arena.Name = "duel"
	})
	s := NewSession(mgr, WithMaxTicks(2000), WithStore(store, 5), WithRecorder(rec), WithLogger(logger))

	sum, err := NewTrainer(s, logger, true).Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if sum.Generations != 10 || len(rec.records) != 10 {
		t.Errorf("expected 10 generations, got %d (%d recorded)", sum.Generations, len(rec.records))
	}
	wins := 0
	for _, n := range sum.Wins {
		wins += n
	}
	if wins+sum.Draws != 10 {
		t.Errorf("wins %d + draws %d should be 10", wins, sum.Draws)
	}
	// Two periodic saves plus the final one, two agents each.
	if store.saves != 6 {
		t.Errorf("expected 6 table saves, got %d", store.saves)
	}
	if got := strings.Count(buf.String(), "generation finished"); got != 10 {
		t.Errorf("expected 10 log lines, got %d", got)
	}
	for _, a := range mgr.Agents() {
		if !a.QTableFinite() {
			t.Errorf("agent %d has non-finite values", a.Index())
		}
	}
}

func TestTrainerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(testManager(t, nil))
	sum, err := NewTrainer(s, nil, false).Run(ctx, 5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if sum.Ticks != 0 {
		t.Errorf("cancelled run should not tick, got %d", sum.Ticks)
	}
}
