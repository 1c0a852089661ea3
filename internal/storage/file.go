package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps each agent's blob in its own file inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	dir, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the blobs.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file that holds agent index's blob.
func (s *FileStore) Path(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("qtable_agent_%d.dat", index))
}

// SaveQTable writes the blob through a temporary file and a rename, so a
// reader never sees a partial table.
func (s *FileStore) SaveQTable(_ context.Context, index int, blob []byte) error {
	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf(".qtable_agent_%d_*.tmp", index))
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot write table %d: %w", index, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cannot write table %d: %w", index, err)
	}
	if err := os.Rename(tmpName, s.Path(index)); err != nil {
		return fmt.Errorf("storage: cannot save table %d: %w", index, err)
	}
	return nil
}

// LoadQTable reads agent index's blob.
func (s *FileStore) LoadQTable(_ context.Context, index int) ([]byte, bool, error) {
	blob, err := os.ReadFile(s.Path(index))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot read table %d: %w", index, err)
	}
	return blob, true, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
