// Package training drives a population through generations: it ends each
// generation on a single survivor or the tick cap, records the result,
// saves tables periodically and respawns the fighters.
package training

import (
	"fmt"

	"github.com/vovakirdan/qfighter/internal/agent"
	"github.com/vovakirdan/qfighter/internal/config"
	"github.com/vovakirdan/qfighter/internal/fight"
	"github.com/vovakirdan/qfighter/internal/population"
)

// NewManager builds the arena, resolver and fighters described by cfg.
// seed feeds the fighters' random sources.
func NewManager(cfg config.FighterConfig, seed int64) (*population.Manager, error) {
	ar, err := cfg.Arena.BuildArena()
	if err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}

	env := fight.NewEnvironment(ar, cfg.Rewards)
	mgr, err := population.New(env,
		population.WithPopulation(cfg.Agents.Population),
		population.WithMaxHP(cfg.Agents.MaxHP),
		population.WithSeed(seed),
		population.WithPriority(cfg.Training.Priority),
		population.WithAgentOptions(
			agent.WithLearning(cfg.Learning.Alpha, cfg.Learning.Gamma),
			agent.WithExploration(cfg.Learning.InitialExploration, cfg.Learning.ExplorationDecay),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}
	return mgr, nil
}
