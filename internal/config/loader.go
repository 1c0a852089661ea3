package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/qfighter/internal/arena"
)

// FileName is the configuration file looked up in the config directories.
const FileName = "fighter.yaml"

// Load loads the fighter configuration.
// Search order: customPath -> ~/.qfighter/configs/fighter.yaml -> ./configs/fighter.yaml -> embedded default.
// Values missing from a file keep their defaults.
func Load(customPath string) (FighterConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return FighterConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return FighterConfig{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultFighterYAML)
	if err != nil {
		return DefaultFighterConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the hard-coded defaults.
func Parse(data []byte) (FighterConfig, error) {
	cfg := DefaultFighterConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FighterConfig{}, err
	}
	return cfg, nil
}

// BuildArena resolves the configured arena.
func (c ArenaConfig) BuildArena() (*arena.Arena, error) {
	if c.File != "" {
		def, err := arena.LoadFile(c.File)
		if err != nil {
			return nil, fmt.Errorf("config: arena file: %w", err)
		}
		return def.Build()
	}
	return arena.Get(c.Name)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".qfighter", "configs", filename)
}
