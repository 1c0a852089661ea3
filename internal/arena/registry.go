package arena

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownArena is returned when a named arena is not registered.
var ErrUnknownArena = errors.New("arena: unknown arena")

// Info contains metadata about a registered arena.
type Info struct {
	ID   string
	Name string
}

var (
	definitions = make(map[string]Definition)
	mu          sync.RWMutex
)

func init() {
	Register(Definition{
		ID:     "duel",
		Name:   "Duel",
		Layout: "#  *      *     #",
	})
	Register(Definition{
		ID:     "classic",
		Name:   "Classic",
		Layout: "#  *   *  #",
	})
	Register(Definition{
		ID:     "long",
		Name:   "Long Hall",
		Layout: "##  *              *     ##",
	})
	Register(Definition{
		ID:   "pit",
		Name: "Pit",
		Layout: `
##########
#*      *#
##########`,
	})
}

// Register adds an arena definition to the registry.
// Panics if the ID is already registered or the layout does not parse.
func Register(def Definition) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := definitions[def.ID]; exists {
		panic(fmt.Sprintf("arena: %q already registered", def.ID))
	}
	if _, err := Parse(def.Layout); err != nil {
		panic(fmt.Sprintf("arena: %q: %v", def.ID, err))
	}
	definitions[def.ID] = def
}

// List returns information about all registered arenas, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(definitions))
	for id, def := range definitions {
		result = append(result, Info{ID: id, Name: def.Name})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Lookup returns the registered definition for id.
func Lookup(id string) (Definition, error) {
	mu.RLock()
	defer mu.RUnlock()

	def, ok := definitions[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownArena, id)
	}
	return def, nil
}

// Get builds the registered arena with the given ID.
func Get(id string) (*Arena, error) {
	def, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	return def.Build()
}

// Exists checks if an arena with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := definitions[id]
	return ok
}
