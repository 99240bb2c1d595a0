package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"paulinepos/internal/store"
)

// SnapshotRepository persists the whole store as one keyed blob.
// Load returns (nil, nil) when nothing was saved yet, so a repository can
// be handed to store.Hydrate directly.
type SnapshotRepository interface {
	Load(ctx context.Context) (*store.Snapshot, error)
	Save(ctx context.Context, snap store.Snapshot) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Backend names the storage kind for logs and /health.
	Backend() string
}

var _ store.SnapshotLoader = SnapshotRepository(nil)

func encodeSnapshot(snap store.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, nil
}

func decodeSnapshot(raw []byte) (*store.Snapshot, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var snap store.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
