// Package storage persists learned Q-table blobs and per-generation training
// history. Blobs are opaque here; encoding belongs to the agent package.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend names accepted by NewQTableStore.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by NewQTableStore for an unsupported kind.
var ErrUnknownBackend = errors.New("storage: unknown backend")

// QTableStore saves and loads one table blob per agent index.
type QTableStore interface {
	SaveQTable(ctx context.Context, index int, blob []byte) error
	// LoadQTable reports found=false, without error, when nothing is stored.
	LoadQTable(ctx context.Context, index int) (blob []byte, found bool, err error)
	Close() error
}

// HistoryRecorder is implemented by stores that keep generation history.
type HistoryRecorder interface {
	RecordGeneration(ctx context.Context, rec GenerationRecord) (int64, error)
}

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite}
}

// NewQTableStore opens a store of the given kind at path. For the file
// backend path is a directory; for sqlite it is the database file.
func NewQTableStore(kind, path string) (QTableStore, error) {
	switch strings.ToLower(kind) {
	case BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return Open(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
