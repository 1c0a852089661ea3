// Package config provides YAML-based configuration loading for the fighter
// simulation, with embedded defaults and validation.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/qfighter/internal/fight"
	"github.com/vovakirdan/qfighter/internal/population"
	"github.com/vovakirdan/qfighter/internal/storage"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// FighterConfig contains all configuration for a simulation run.
type FighterConfig struct {
	Arena    ArenaConfig    `yaml:"arena"`
	Agents   AgentsConfig   `yaml:"agents"`
	Learning LearningConfig `yaml:"learning"`
	Rewards  fight.Rewards  `yaml:"rewards"`
	Training TrainingConfig `yaml:"training"`
	Storage  StorageConfig  `yaml:"storage"`
	Watch    WatchConfig    `yaml:"watch"`
}

// ArenaConfig selects the arena. File wins over Name when both are set.
type ArenaConfig struct {
	Name string `yaml:"name"` // Built-in arena ID
	File string `yaml:"file"` // YAML or text arena file
}

// AgentsConfig defines the population.
type AgentsConfig struct {
	Population int `yaml:"population"`
	MaxHP      int `yaml:"max_hp"`
}

// LearningConfig defines Q-learning parameters.
type LearningConfig struct {
	Alpha              float64 `yaml:"alpha"`
	Gamma              float64 `yaml:"gamma"`
	InitialExploration float64 `yaml:"initial_exploration"`
	ExplorationDecay   float64 `yaml:"exploration_decay"` // Applied on every random draw
}

// TrainingConfig defines the generation loop.
type TrainingConfig struct {
	Generations int   `yaml:"generations"`
	SaveEvery   int   `yaml:"save_every"` // 0 disables periodic saves
	MaxTicks    int   `yaml:"max_ticks"`  // Ticks before a generation is called a draw
	Priority    bool  `yaml:"priority"`   // true = agent 0 resolves first
	Seed        int64 `yaml:"seed"`       // 0 = time based
}

// StorageConfig defines where tables and history live.
type StorageConfig struct {
	Backend  string `yaml:"backend"` // "file" or "sqlite"
	Path     string `yaml:"path"`
	LoadMode string `yaml:"load_mode"`
}

// WatchConfig defines the spectator view.
type WatchConfig struct {
	TickRate    int `yaml:"tick_rate"` // Ticks per second
	HistoryRows int `yaml:"history_rows"`
}

// Mode returns the parsed storage load mode.
func (c StorageConfig) Mode() (population.LoadMode, error) {
	return population.ParseLoadMode(c.LoadMode)
}

// Validate rejects values the simulation cannot run with.
func (c FighterConfig) Validate() error {
	check := func(ok bool, format string, args ...any) error {
		if ok {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	checks := []error{
		check(c.Arena.Name != "" || c.Arena.File != "", "arena.name or arena.file is required"),
		check(c.Agents.Population >= 1, "agents.population must be at least 1, got %d", c.Agents.Population),
		check(c.Agents.MaxHP >= 1, "agents.max_hp must be at least 1, got %d", c.Agents.MaxHP),
		check(c.Learning.Alpha >= 0 && c.Learning.Alpha <= 1, "learning.alpha must be in [0,1], got %v", c.Learning.Alpha),
		check(c.Learning.Gamma >= 0 && c.Learning.Gamma <= 1, "learning.gamma must be in [0,1], got %v", c.Learning.Gamma),
		check(c.Learning.InitialExploration >= 0 && c.Learning.InitialExploration <= 1,
			"learning.initial_exploration must be in [0,1], got %v", c.Learning.InitialExploration),
		check(c.Learning.ExplorationDecay > 0 && c.Learning.ExplorationDecay <= 1,
			"learning.exploration_decay must be in (0,1], got %v", c.Learning.ExplorationDecay),
		check(c.Training.Generations >= 0, "training.generations must not be negative"),
		check(c.Training.SaveEvery >= 0, "training.save_every must not be negative"),
		check(c.Training.MaxTicks >= 1, "training.max_ticks must be at least 1, got %d", c.Training.MaxTicks),
		check(c.Watch.TickRate >= 1, "watch.tick_rate must be at least 1, got %d", c.Watch.TickRate),
		check(validBackend(c.Storage.Backend), "storage.backend must be one of %v, got %q", storage.Backends(), c.Storage.Backend),
	}
	if _, err := c.Storage.Mode(); err != nil {
		checks = append(checks, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	return errors.Join(checks...)
}

func validBackend(name string) bool {
	for _, b := range storage.Backends() {
		if b == name {
			return true
		}
	}
	return false
}
