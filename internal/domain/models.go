// Package domain defines the persistence models for journal entries. These
// types are mapped with GORM and form the core data layer of the journal.
//
// Both entry types are plain comparable values: two entries are equal when
// every field is equal, so fetched rows can be compared with == in tests.
package domain

// PersonalEntry is a diary record with a title and free-form body.
//
// Fields:
//   - ID: store-assigned primary key. Zero means "not yet persisted".
//   - Title / Body: non-empty text. The store does not enforce this; forms do.
//   - CreatedAt: milliseconds since the Unix epoch, set on insert when zero.
type PersonalEntry struct {
	ID        int64  `json:"id"         gorm:"primaryKey;autoIncrement"`
	Title     string `json:"title"      gorm:"type:text;not null"`
	Body      string `json:"body"       gorm:"type:text;not null"`
	CreatedAt int64  `json:"created_at" gorm:"not null;autoCreateTime:milli;index:idx_personal_created"`
}

// TableName returns the database table name for PersonalEntry.
func (PersonalEntry) TableName() string { return "personal_entries" }

// TravelEntry records one trip.
//
// Fields:
//   - ID: store-assigned primary key. Zero means "not yet persisted".
//   - Destination: required by forms.
//   - Date: free-form text as typed by the user; never parsed.
//   - Activities / Food / PeopleMet: optional free text.
//   - Rating: expected to be 1..5, not enforced by the store.
type TravelEntry struct {
	ID          int64  `json:"id"          gorm:"primaryKey;autoIncrement"`
	Destination string `json:"destination" gorm:"type:text;not null"`
	Date        string `json:"date"        gorm:"type:text;not null"`
	Activities  string `json:"activities"  gorm:"type:text;not null"`
	Food        string `json:"food"        gorm:"type:text;not null"`
	PeopleMet   string `json:"people_met"  gorm:"type:text;not null"`
	Rating      int    `json:"rating"      gorm:"not null"`
}

// TableName returns the database table name for TravelEntry.
func (TravelEntry) TableName() string { return "travel_entries" }

// Persisted reports whether the entry has been assigned an id by the store.
func (e PersonalEntry) Persisted() bool { return e.ID > 0 }

// Persisted reports whether the entry has been assigned an id by the store.
func (e TravelEntry) Persisted() bool { return e.ID > 0 }

// Kind names one of the two journals. It scopes idempotency keys and labels
// metrics, logs and spans.
type Kind string

const (
	KindPersonal Kind = "personal"
	KindTravel   Kind = "travel"
)
