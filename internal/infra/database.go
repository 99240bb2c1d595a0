package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"paulinepos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported SQL dialects for NewDatabase.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// NewDatabase opens a GORM connection for dialect and migrates the snapshot
// table. For sqlite, dsn is a file path (its directory is created) or
// "file::memory:"; for postgres it is a URL or key=value DSN.
func NewDatabase(dialect, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dialect {
	case DialectSQLite:
		if dir := filepath.Dir(dsn); dir != "." && dsn != "file::memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite dir: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	case DialectPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported SQL dialect %q", dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		// one writer; the persister is the only client anyway
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetMaxIdleConns(2)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the snapshot table. Integration tests
// call it on containers they open themselves.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.SnapshotRecord{}); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return nil
}
