package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "tables")

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	defer store.Close()

	if _, found, err := store.LoadQTable(ctx, 0); err != nil || found {
		t.Fatalf("expected missing table, got found=%v err=%v", found, err)
	}

	if err := store.SaveQTable(ctx, 0, []byte("first")); err != nil {
		t.Fatalf("SaveQTable() failed: %v", err)
	}
	if err := store.SaveQTable(ctx, 0, []byte("second")); err != nil {
		t.Fatalf("SaveQTable() overwrite failed: %v", err)
	}

	blob, found, err := store.LoadQTable(ctx, 0)
	if err != nil || !found {
		t.Fatalf("LoadQTable() failed: found=%v err=%v", found, err)
	}
	if !bytes.Equal(blob, []byte("second")) {
		t.Errorf("expected latest blob, got %q", blob)
	}

	if filepath.Base(store.Path(0)) != "qtable_agent_0.dat" {
		t.Errorf("unexpected file name %s", store.Path(0))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the table file, found %d entries", len(entries))
	}
}

func TestNewQTableStore(t *testing.T) {
	dir := t.TempDir()

	fileStore, err := NewQTableStore(BackendFile, filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	defer fileStore.Close()
	if _, ok := fileStore.(*FileStore); !ok {
		t.Errorf("expected *FileStore, got %T", fileStore)
	}

	sqlStore, err := NewQTableStore("SQLite", filepath.Join(dir, "q.db"))
	if err != nil {
		t.Fatalf("sqlite backend: %v", err)
	}
	defer sqlStore.Close()
	if _, ok := sqlStore.(HistoryRecorder); !ok {
		t.Error("sqlite store should record history")
	}

	if _, err := NewQTableStore("redis", dir); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}
