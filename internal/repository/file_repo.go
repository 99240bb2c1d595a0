package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"paulinepos/internal/store"
)

type fileSnapshotRepo struct{ path string }

// NewFileSnapshotRepository stores the snapshot as a JSON document at path.
// Writes go to a temporary file in the same directory and are renamed over
// the previous snapshot, so a crash mid-write leaves the old one intact.
func NewFileSnapshotRepository(path string) SnapshotRepository {
	return &fileSnapshotRepo{path: path}
}

func (r *fileSnapshotRepo) Backend() string { return "file" }

func (r *fileSnapshotRepo) Load(_ context.Context) (*store.Snapshot, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	return decodeSnapshot(raw)
}

func (r *fileSnapshotRepo) Save(ctx context.Context, snap store.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Ping checks that the snapshot directory exists or can be created.
func (r *fileSnapshotRepo) Ping(_ context.Context) error {
	return os.MkdirAll(filepath.Dir(r.path), 0o755)
}
