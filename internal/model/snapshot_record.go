package model

import (
	"time"

	"gorm.io/datatypes"
)

// SnapshotRecord is the SQL row holding one persisted store snapshot.
// Key lets several stores (e.g. staging and demo) share a database.
type SnapshotRecord struct {
	Key       string         `gorm:"column:snapshot_key;type:varchar(64);primaryKey"`
	Version   int            `gorm:"not null"`
	Payload   datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName pins the table name independently of the struct name.
func (SnapshotRecord) TableName() string { return "store_snapshots" }
