// Package repo implements the data persistence layer for journal entries,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and the version 1 schema.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// DefaultDBFile is the file name the journal is stored under when no path is
// configured.
const DefaultDBFile = "journal.db"

// SchemaVersion is written to PRAGMA user_version by Migrate.
const SchemaVersion = 1

// schema is executed one statement at a time (multi-statement Exec is flaky
// on this driver). AUTOINCREMENT keeps ids monotonic even after deletes.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS personal_entries (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		title      TEXT    NOT NULL,
		body       TEXT    NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_personal_created ON personal_entries (created_at)`,
	`CREATE TABLE IF NOT EXISTS travel_entries (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		destination TEXT    NOT NULL,
		date        TEXT    NOT NULL,
		activities  TEXT    NOT NULL DEFAULT '',
		food        TEXT    NOT NULL DEFAULT '',
		people_met  TEXT    NOT NULL DEFAULT '',
		rating      INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS idempotency (
		id         TEXT     NOT NULL PRIMARY KEY,
		scope      TEXT     NOT NULL,
		key        TEXT     NOT NULL,
		entry_id   INTEGER  NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_scope_key ON idempotency (scope, key)`,
	`CREATE INDEX IF NOT EXISTS idx_idempotency_expires_at ON idempotency (expires_at)`,
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
// Queries are traced through the OpenTelemetry GORM plugin; spans are no-ops
// unless a tracer provider has been installed.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.New(zerologWriter{}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// Migrate creates the journal tables when missing and stamps the schema
// version. It is safe to run on every start.
func Migrate(db *gorm.DB) error {
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return db.Exec(fmt.Sprintf("PRAGMA user_version = %d;", SchemaVersion)).Error
}

// zerologWriter routes GORM's logger (slow queries, errors) to zerolog.
type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...interface{}) {
	log.Warn().Str("component", "gorm").Msgf(format, args...)
}
