package training

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/qfighter/internal/population"
	"github.com/vovakirdan/qfighter/internal/storage"
)

// DefaultMaxTicks caps a generation that never produces a single survivor.
const DefaultMaxTicks = 5000

// GenerationResult summarizes one finished generation.
type GenerationResult struct {
	Generation  int
	Ticks       int
	Winner      int // -1 when the generation ended without a single survivor
	Capped      bool
	Scores      []float64
	Exploration []float64
}

// Draw reports whether nobody won.
func (r GenerationResult) Draw() bool { return r.Winner < 0 }

// Record converts the result into a storage history record.
func (r GenerationResult) Record() storage.GenerationRecord {
	return storage.GenerationRecord{
		Generation:  r.Generation,
		Ticks:       r.Ticks,
		Winner:      r.Winner,
		Scores:      r.Scores,
		Exploration: r.Exploration,
	}
}

// StepResult is the outcome of one Session.Step.
type StepResult struct {
	Tick     population.TickResult
	Finished *GenerationResult // Set when this step ended a generation
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMaxTicks sets the tick cap per generation.
func WithMaxTicks(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxTicks = n
		}
	}
}

// WithStore saves tables to store every n generations. n <= 0 disables
// periodic saves while keeping Save and Load available.
func WithStore(store storage.QTableStore, every int) SessionOption {
	return func(s *Session) {
		s.store = store
		s.saveEvery = every
	}
}

// WithRecorder records every finished generation.
func WithRecorder(rec storage.HistoryRecorder) SessionOption {
	return func(s *Session) { s.recorder = rec }
}

// WithLogger sets the logger used for saves and recording failures.
func WithLogger(logger *log.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session steps one population tick by tick and handles the generation
// boundary. It is not safe for concurrent use.
type Session struct {
	mgr        *population.Manager
	maxTicks   int
	store      storage.QTableStore
	saveEvery  int
	recorder   storage.HistoryRecorder
	logger     *log.Logger
	generation int
	tick       int
	last       *GenerationResult
}

// NewSession creates a session starting at generation 1.
func NewSession(mgr *population.Manager, opts ...SessionOption) *Session {
	s := &Session{
		mgr:        mgr,
		maxTicks:   DefaultMaxTicks,
		logger:     log.New(io.Discard),
		generation: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Manager returns the population being stepped.
func (s *Session) Manager() *population.Manager { return s.mgr }

// Generation returns the 1-based number of the generation in progress.
func (s *Session) Generation() int { return s.generation }

// Tick returns the number of ticks played in the current generation.
func (s *Session) Tick() int { return s.tick }

// MaxTicks returns the tick cap.
func (s *Session) MaxTicks() int { return s.maxTicks }

// LastResult returns the most recently finished generation, or nil.
func (s *Session) LastResult() *GenerationResult { return s.last }

// Step plays one tick. When the tick ends the generation the result is
// recorded, tables are saved if due and the fighters respawn.
func (s *Session) Step(ctx context.Context) (StepResult, error) {
	res, err := s.mgr.Tick()
	if err != nil {
		return StepResult{}, fmt.Errorf("training: generation %d tick %d: %w", s.generation, s.tick+1, err)
	}
	s.tick++

	out := StepResult{Tick: res}
	if !res.Done && s.tick < s.maxTicks {
		return out, nil
	}

	gen := s.result(!res.Done)
	out.Finished = &gen
	s.last = &gen

	if s.recorder != nil {
		if _, err := s.recorder.RecordGeneration(ctx, gen.Record()); err != nil {
			s.logger.Warn("could not record generation", "generation", gen.Generation, "error", err)
		}
	}
	var saveErr error
	if s.store != nil && s.saveEvery > 0 && gen.Generation%s.saveEvery == 0 {
		saveErr = s.Save(ctx)
	}

	// The generation is over even when the save failed.
	s.mgr.Reset()
	s.generation++
	s.tick = 0
	return out, saveErr
}

func (s *Session) result(capped bool) GenerationResult {
	agents := s.mgr.Agents()
	gen := GenerationResult{
		Generation:  s.generation,
		Ticks:       s.tick,
		Winner:      -1,
		Capped:      capped,
		Scores:      make([]float64, len(agents)),
		Exploration: make([]float64, len(agents)),
	}
	for i, a := range agents {
		gen.Scores[i] = a.Score()
		gen.Exploration[i] = a.Exploration()
	}
	if w := s.mgr.Winner(); w != nil {
		gen.Winner = w.Index()
	}
	return gen
}

// Restart abandons the current generation and respawns the fighters.
// Learned tables are kept and nothing is recorded.
func (s *Session) Restart() {
	s.mgr.Reset()
	s.tick = 0
}

// Save stores every fighter's table.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.mgr.SaveTables(ctx, s.store); err != nil {
		return fmt.Errorf("training: %w", err)
	}
	s.logger.Debug("saved tables", "generation", s.generation, "agents", s.mgr.Len())
	return nil
}

// Load replaces the fighters' tables according to mode and restarts the
// generation.
func (s *Session) Load(ctx context.Context, mode population.LoadMode) (population.LoadReport, error) {
	if s.store == nil && mode != population.LoadFresh {
		return population.LoadReport{Mode: mode}, fmt.Errorf("training: no store to load from")
	}
	report, err := s.mgr.LoadTables(ctx, s.store, mode)
	if err != nil {
		return report, fmt.Errorf("training: %w", err)
	}
	for _, i := range report.Missing {
		s.logger.Warn("no stored table, starting fresh", "agent", i, "mode", mode)
	}
	s.Restart()
	return report, nil
}
