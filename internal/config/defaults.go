package config

import (
	_ "embed"

	"github.com/vovakirdan/qfighter/internal/fight"
)

//go:embed defaults/fighter.yaml
var defaultFighterYAML []byte

// DefaultFighterConfig returns the hard-coded default configuration.
func DefaultFighterConfig() FighterConfig {
	return FighterConfig{
		Arena: ArenaConfig{
			Name: "classic",
		},
		Agents: AgentsConfig{
			Population: 2,
			MaxHP:      10,
		},
		Learning: LearningConfig{
			Alpha:              0.8,
			Gamma:              0.8,
			InitialExploration: 1.0,
			ExplorationDecay:   0.99,
		},
		Rewards: fight.DefaultRewards(),
		Training: TrainingConfig{
			Generations: 100,
			SaveEvery:   2,
			MaxTicks:    5000,
			Priority:    true,
			Seed:        0,
		},
		Storage: StorageConfig{
			Backend:  "sqlite",
			Path:     "~/.qfighter/qfighter.db",
			LoadMode: "self",
		},
		Watch: WatchConfig{
			TickRate:    10,
			HistoryRows: 10,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultFighterYAML
}
