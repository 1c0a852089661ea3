package agent

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/qfighter/internal/core"
)

// CodecVersion is the current Q-table blob format version.
const CodecVersion = 1

// ErrCodecVersion is returned when a blob was written by an unknown format version.
var ErrCodecVersion = errors.New("agent: qtable codec version mismatch")

// Key addresses one joint-state estimate: the agent's own cell and action
// against the opponent's cell and last action. Entries keyed on ActionNone
// are never stored: nothing is learned before the opponent has acted.
type Key struct {
	State     core.Position
	Action    core.Action
	OppState  core.Position
	OppAction core.Action
}

// less orders keys field by field for deterministic encoding.
func (k Key) less(o Key) bool {
	if k.State != o.State {
		return k.State.Less(o.State)
	}
	if k.Action != o.Action {
		return k.Action < o.Action
	}
	if k.OppState != o.OppState {
		return k.OppState.Less(o.OppState)
	}
	return k.OppAction < o.OppAction
}

// Entry is a single stored estimate.
type Entry struct {
	Key   Key
	Value float64
}

// QTable is a sparse joint-state action-value table.
// Missing entries read as 0.0 and are never inserted by reads, which keeps
// memory proportional to visited combinations instead of |S|^2*|A|^2.
type QTable struct {
	values map[Key]float64
}

// NewQTable creates an empty table.
func NewQTable() *QTable {
	return &QTable{values: make(map[Key]float64)}
}

// Get returns the estimate for k, or 0.0 if it was never written.
func (q *QTable) Get(k Key) float64 {
	return q.values[k]
}

// Set stores an estimate.
func (q *QTable) Set(k Key, v float64) {
	q.values[k] = v
}

// Len returns the number of stored entries.
func (q *QTable) Len() int {
	return len(q.values)
}

// MaxAction returns the highest estimate over all actions for the given
// own state and opponent observation.
func (q *QTable) MaxAction(state, oppState core.Position, oppAction core.Action) float64 {
	best := math.Inf(-1)
	for _, a := range core.Actions {
		v := q.Get(Key{State: state, Action: a, OppState: oppState, OppAction: oppAction})
		if v > best {
			best = v
		}
	}
	return best
}

// Clone returns a deep copy of the table.
func (q *QTable) Clone() *QTable {
	c := &QTable{values: make(map[Key]float64, len(q.values))}
	for k, v := range q.values {
		c.values[k] = v
	}
	return c
}

// Entries returns all stored entries in key order.
func (q *QTable) Entries() []Entry {
	entries := make([]Entry, 0, len(q.values))
	for k, v := range q.values {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key.less(entries[j].Key)
	})
	return entries
}

// Nested returns the table as the nested mapping
// own state -> action -> opponent state -> opponent action -> value.
func (q *QTable) Nested() map[core.Position]map[core.Action]map[core.Position]map[core.Action]float64 {
	out := make(map[core.Position]map[core.Action]map[core.Position]map[core.Action]float64)
	for k, v := range q.values {
		byAction, ok := out[k.State]
		if !ok {
			byAction = make(map[core.Action]map[core.Position]map[core.Action]float64)
			out[k.State] = byAction
		}
		byOpp, ok := byAction[k.Action]
		if !ok {
			byOpp = make(map[core.Position]map[core.Action]float64)
			byAction[k.Action] = byOpp
		}
		byOppAction, ok := byOpp[k.OppState]
		if !ok {
			byOppAction = make(map[core.Action]float64)
			byOpp[k.OppState] = byOppAction
		}
		byOppAction[k.OppAction] = v
	}
	return out
}

// Equal reports whether two tables hold identical estimates.
// An explicit 0.0 entry equals a missing one.
func (q *QTable) Equal(other *QTable) bool {
	for k, v := range q.values {
		if !sameFloat(other.Get(k), v) {
			return false
		}
	}
	for k, v := range other.values {
		if !sameFloat(q.Get(k), v) {
			return false
		}
	}
	return true
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// Finite reports whether every stored estimate is a finite number.
func (q *QTable) Finite() bool {
	for _, v := range q.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// qtableRecord is the versioned on-disk form of a table.
type qtableRecord struct {
	Version int
	Entries []Entry
}

// MarshalBinary encodes the table as a gob blob with entries in key order.
func (q *QTable) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	rec := qtableRecord{Version: CodecVersion, Entries: q.Entries()}
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, fmt.Errorf("agent: encode qtable: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces the table contents with a decoded blob.
func (q *QTable) UnmarshalBinary(data []byte) error {
	var rec qtableRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return fmt.Errorf("agent: decode qtable: %w", err)
	}
	if rec.Version != CodecVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrCodecVersion, rec.Version, CodecVersion)
	}

	q.values = make(map[Key]float64, len(rec.Entries))
	for _, e := range rec.Entries {
		q.values[e.Key] = e.Value
	}
	return nil
}

// DecodeQTable decodes a blob produced by MarshalBinary.
func DecodeQTable(data []byte) (*QTable, error) {
	q := NewQTable()
	if err := q.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return q, nil
}
