package training

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Summary aggregates a training run.
type Summary struct {
	Generations int
	Ticks       int
	Draws       int
	Wins        map[int]int
	Elapsed     time.Duration
}

// Trainer runs a Session headless for a number of generations.
type Trainer struct {
	session   *Session
	logger    *log.Logger
	finalSave bool
}

// NewTrainer creates a trainer. With finalSave the tables are stored once
// more after the last generation.
func NewTrainer(session *Session, logger *log.Logger, finalSave bool) *Trainer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Trainer{session: session, logger: logger, finalSave: finalSave}
}

// Run plays generations to completion. Cancellation is checked between
// ticks; a cancelled run returns the summary so far with ctx.Err().
func (t *Trainer) Run(ctx context.Context, generations int) (Summary, error) {
	sum := Summary{Wins: make(map[int]int)}
	start := time.Now()

	for sum.Generations < generations {
		if err := ctx.Err(); err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}

		step, err := t.session.Step(ctx)
		if err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}
		sum.Ticks++

		gen := step.Finished
		if gen == nil {
			continue
		}
		sum.Generations++
		if gen.Draw() {
			sum.Draws++
		} else {
			sum.Wins[gen.Winner]++
		}
		t.logger.Info("generation finished",
			"generation", gen.Generation,
			"ticks", gen.Ticks,
			"winner", winnerLabel(gen),
			"scores", gen.Scores,
			"exploration", gen.Exploration[0],
		)
	}

	if t.finalSave {
		if err := t.session.Save(ctx); err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}
	}
	sum.Elapsed = time.Since(start)
	return sum, nil
}

func winnerLabel(gen *GenerationResult) any {
	if gen.Draw() {
		return "draw"
	}
	return gen.Winner
}
