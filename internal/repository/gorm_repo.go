package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paulinepos/internal/model"
	"paulinepos/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormSnapshotRepo struct {
	db  *gorm.DB
	key string
}

// NewGormSnapshotRepository keeps the snapshot in the store_snapshots table
// under key. It works on both sqlite and postgres connections; the table is
// created by infra.NewDatabase.
func NewGormSnapshotRepository(db *gorm.DB, key string) SnapshotRepository {
	return &gormSnapshotRepo{db: db, key: key}
}

func (r *gormSnapshotRepo) Backend() string { return r.db.Dialector.Name() }

func (r *gormSnapshotRepo) Load(ctx context.Context) (*store.Snapshot, error) {
	var rec model.SnapshotRecord
	err := r.db.WithContext(ctx).First(&rec, "snapshot_key = ?", r.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", r.key, err)
	}
	return decodeSnapshot(rec.Payload)
}

// Save upserts the row; concurrent savers resolve to the last write.
func (r *gormSnapshotRepo) Save(ctx context.Context, snap store.Snapshot) error {
	raw, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	rec := model.SnapshotRecord{
		Key:       r.key,
		Version:   snap.Version,
		Payload:   raw,
		UpdatedAt: time.Now().UTC(),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", r.key, err)
	}
	return nil
}

func (r *gormSnapshotRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
