// Package repo implements the data persistence layer for journal entries,
// backed by GORM. This file provides small aggregate queries used by the
// archive summary. Each function is context-aware and safe to call from
// services or handlers.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/memomiles-backend/internal/domain"
)

// Stats summarises both journals.
//
// Fields:
//   - Personal / Travel: row counts.
//   - LastPersonalAt: greatest created_at in milliseconds, or nil when the
//     personal journal is empty.
//   - LastTravelID: greatest travel id, or nil when empty. Travel entries
//     carry no timestamp, so the id is the only recency signal.
type Stats struct {
	Personal       int64  `json:"personal"`
	Travel         int64  `json:"travel"`
	LastPersonalAt *int64 `json:"last_personal_at,omitempty"`
	LastTravelID   *int64 `json:"last_travel_id,omitempty"`
}

// JournalStats counts both tables and reports the newest entry of each.
func JournalStats(ctx context.Context, db *gorm.DB) (Stats, error) {
	var st Stats

	pq := db.WithContext(ctx).Model(&domain.PersonalEntry{})
	if err := pq.Count(&st.Personal).Error; err != nil {
		return Stats{}, err
	}
	if st.Personal > 0 {
		var row struct{ CreatedAt int64 }
		if err := db.WithContext(ctx).Model(&domain.PersonalEntry{}).
			Select("created_at").Order("created_at DESC").Limit(1).
			Scan(&row).Error; err != nil {
			return Stats{}, err
		}
		st.LastPersonalAt = &row.CreatedAt
	}

	tq := db.WithContext(ctx).Model(&domain.TravelEntry{})
	if err := tq.Count(&st.Travel).Error; err != nil {
		return Stats{}, err
	}
	if st.Travel > 0 {
		var row struct{ ID int64 }
		if err := db.WithContext(ctx).Model(&domain.TravelEntry{}).
			Select("id").Order("id DESC").Limit(1).
			Scan(&row).Error; err != nil {
			return Stats{}, err
		}
		st.LastTravelID = &row.ID
	}

	return st, nil
}
