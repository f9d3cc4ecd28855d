// Package repo implements the data persistence layer for journal entries,
// backed by GORM. This file provides repository functions for the
// PersonalEntry model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an entry is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Functions:
//
//   - CreatePersonalEntry(ctx, db, e) -> error
//     Inserts a row; a zero ID is assigned by SQLite, a zero CreatedAt is
//     set to the current time in milliseconds.
//
//   - UpdatePersonalEntry(ctx, db, e) -> error
//     Replaces title and body (and created_at when non-zero) of row e.ID.
//
//   - DeletePersonalEntry(ctx, db, id) -> error
//
//   - GetPersonalEntry(ctx, db, id) -> *domain.PersonalEntry, error
//
//   - ListPersonalEntries(ctx, db) -> []domain.PersonalEntry, error
//     Newest first by created_at; ties broken by id.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/memomiles-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// nowMillis is the clock used to default PersonalEntry.CreatedAt.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// CreatePersonalEntry inserts e and writes the assigned id back into it.
func CreatePersonalEntry(ctx context.Context, db *gorm.DB, e *domain.PersonalEntry) error {
	if e.CreatedAt == 0 {
		e.CreatedAt = nowMillis()
	}
	return db.WithContext(ctx).Create(e).Error
}

// UpdatePersonalEntry replaces the mutable fields of the row identified by
// e.ID. A zero CreatedAt keeps the stored timestamp. If no row matches, it
// returns ErrNotFound.
func UpdatePersonalEntry(ctx context.Context, db *gorm.DB, e domain.PersonalEntry) error {
	fields := map[string]any{
		"title": e.Title,
		"body":  e.Body,
	}
	if e.CreatedAt != 0 {
		fields["created_at"] = e.CreatedAt
	}
	res := db.WithContext(ctx).
		Model(&domain.PersonalEntry{}).
		Where("id = ?", e.ID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePersonalEntry removes the row with the given id, or returns
// ErrNotFound when there is none.
func DeletePersonalEntry(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Delete(&domain.PersonalEntry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPersonalEntry fetches a single entry by id. If the record does not
// exist, it returns ErrNotFound.
func GetPersonalEntry(ctx context.Context, db *gorm.DB, id int64) (*domain.PersonalEntry, error) {
	var e domain.PersonalEntry
	if err := db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ListPersonalEntries returns every entry, newest first. It returns an empty
// slice when the journal is empty.
func ListPersonalEntries(ctx context.Context, db *gorm.DB) ([]domain.PersonalEntry, error) {
	out := []domain.PersonalEntry{}
	err := db.WithContext(ctx).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}
