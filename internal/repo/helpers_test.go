package repo

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newJournalDB opens a fresh file-backed database. When migrated is true the
// version 1 schema is applied.
func newJournalDB(t *testing.T, migrated bool) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("journal_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if migrated {
		if err := Migrate(db); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return db
}

// fixedClock pins nowMillis for the duration of a test.
func fixedClock(t *testing.T, ms ...int64) {
	t.Helper()
	prev := nowMillis
	i := 0
	nowMillis = func() int64 {
		v := ms[i]
		if i < len(ms)-1 {
			i++
		}
		return v
	}
	t.Cleanup(func() { nowMillis = prev })
}
