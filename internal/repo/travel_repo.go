// Package repo implements the data persistence layer for journal entries,
// backed by GORM. This file provides repository functions for the
// TravelEntry model.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/memomiles-backend/internal/domain"
)

// CreateTravelEntry inserts e and writes the assigned id back into it.
func CreateTravelEntry(ctx context.Context, db *gorm.DB, e *domain.TravelEntry) error {
	return db.WithContext(ctx).Create(e).Error
}

// UpdateTravelEntry replaces every field except the id of row e.ID.
// Empty strings and a zero rating are written as given.
func UpdateTravelEntry(ctx context.Context, db *gorm.DB, e domain.TravelEntry) error {
	res := db.WithContext(ctx).
		Model(&domain.TravelEntry{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"destination": e.Destination,
			"date":        e.Date,
			"activities":  e.Activities,
			"food":        e.Food,
			"people_met":  e.PeopleMet,
			"rating":      e.Rating,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTravelEntry removes the row with the given id, or returns
// ErrNotFound when there is none.
func DeleteTravelEntry(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Delete(&domain.TravelEntry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTravelEntry fetches a travel entry by id, or ErrNotFound if missing.
func GetTravelEntry(ctx context.Context, db *gorm.DB, id int64) (*domain.TravelEntry, error) {
	var e domain.TravelEntry
	if err := db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ListTravelEntries returns every travel entry in reverse insertion order.
func ListTravelEntries(ctx context.Context, db *gorm.DB) ([]domain.TravelEntry, error) {
	out := []domain.TravelEntry{}
	err := db.WithContext(ctx).Order("id desc").Find(&out).Error
	return out, err
}
