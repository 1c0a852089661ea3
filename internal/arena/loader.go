package arena

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is a named arena template, either built in or read from disk.
type Definition struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Layout   string            `yaml:"layout"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
	FilePath string            `yaml:"-"`
}

// Build parses the definition's layout into an Arena.
func (d Definition) Build() (*Arena, error) {
	a, err := Parse(d.Layout)
	if err != nil {
		return nil, fmt.Errorf("arena %q: %w", d.ID, err)
	}
	return a, nil
}

// Loader reads arena definitions from a file or a directory tree.
// YAML files carry id/name/layout; plain .txt files hold a bare template
// and take their ID from the file name.
type Loader struct {
	Root string
}

// NewLoader creates a new arena loader rooted at root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans Root and loads every supported file.
// Returns definitions sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Definition, error) {
	var defs []Definition

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		def, err := LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("arena: walking directory %s: %w", l.Root, err)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})
	return defs, nil
}

// LoadByID loads a specific arena by ID from Root.
func (l *Loader) LoadByID(id string) (Definition, error) {
	defs, err := l.LoadAll()
	if err != nil {
		return Definition{}, err
	}
	for _, def := range defs {
		if def.ID == id {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %s", ErrUnknownArena, id)
}

// LoadFile loads a single arena file.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("arena: reading file %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var def Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		def, err = ParseYAML(data)
		if err != nil {
			return Definition{}, fmt.Errorf("arena: parsing file %s: %w", path, err)
		}
	case ".txt":
		def = Definition{Layout: string(data)}
	default:
		return Definition{}, fmt.Errorf("arena: unsupported extension: %s", filepath.Ext(path))
	}

	if def.ID == "" {
		def.ID = base
	}
	if def.Name == "" {
		def.Name = def.ID
	}
	def.FilePath = path

	// Reject layouts that would fail later at Build time.
	if _, err := Parse(def.Layout); err != nil {
		return Definition{}, fmt.Errorf("arena: %s: %w", path, err)
	}
	return def, nil
}

// ParseYAML parses a YAML arena definition.
func ParseYAML(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return def, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".txt"}
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
