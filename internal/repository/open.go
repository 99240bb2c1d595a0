package repository

import (
	"context"
	"fmt"

	"paulinepos/internal/config"
	"paulinepos/internal/infra"
)

// Backend is an opened snapshot repository with the connection behind it.
type Backend struct {
	Repo SnapshotRepository
	// Remote backends are saved through a circuit breaker.
	Remote bool
	Close  func() error
}

// Open builds the repository selected by STORAGE_BACKEND.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		return &Backend{
			Repo:  NewFileSnapshotRepository(cfg.SnapshotPath),
			Close: func() error { return nil },
		}, nil

	case config.BackendSQLite, config.BackendPostgres:
		dialect, dsn := infra.DialectSQLite, cfg.SQLitePath
		if cfg.StorageBackend == config.BackendPostgres {
			dialect, dsn = infra.DialectPostgres, cfg.DatabaseURL
		}
		db, err := infra.NewDatabase(dialect, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", dialect, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &Backend{
			Repo:   NewGormSnapshotRepository(db, cfg.StorageKey),
			Remote: dialect == infra.DialectPostgres,
			Close:  sqlDB.Close,
		}, nil

	case config.BackendRedis:
		rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		return &Backend{
			Repo:   NewRedisSnapshotRepository(rdb, cfg.StorageKey),
			Remote: true,
			Close:  rdb.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
