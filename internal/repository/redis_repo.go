package repository

import (
	"context"
	"errors"
	"fmt"

	"paulinepos/internal/store"

	"github.com/redis/go-redis/v9"
)

type redisSnapshotRepo struct {
	rdb *redis.Client
	key string
}

// NewRedisSnapshotRepository stores the JSON snapshot as a plain string
// value under key, without expiry.
func NewRedisSnapshotRepository(rdb *redis.Client, key string) SnapshotRepository {
	return &redisSnapshotRepo{rdb: rdb, key: key}
}

func (r *redisSnapshotRepo) Backend() string { return "redis" }

func (r *redisSnapshotRepo) Load(ctx context.Context) (*store.Snapshot, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return decodeSnapshot(raw)
}

func (r *redisSnapshotRepo) Save(ctx context.Context, snap store.Snapshot) error {
	raw, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *redisSnapshotRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
