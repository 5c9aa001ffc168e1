package storage

import (
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kei-test/mega/internal/platform/errors"
	"github.com/kei-test/mega/internal/platform/storage/migrations"
)

// Open connects to the sqlite database at dsn and brings the schema up to
// date. A dsn of ":memory:" yields a throwaway database for tests.
func Open(dsn string) (*gorm.DB, error) {
	const op = "storage.open"

	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.KindStorage, op, "create data directory", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "open database", err)
	}

	if dsn != ":memory:" {
		db.Exec("PRAGMA journal_mode=WAL")
		db.Exec("PRAGMA busy_timeout=5000")
	}

	manager := NewMigrationManager(db)
	manager.AddMigration(&migrations.Migration001Schema{})
	manager.AddMigration(&migrations.Migration002SeedLevels{})
	if err := manager.RunMigrations(); err != nil {
		return nil, err
	}
	return db, nil
}
