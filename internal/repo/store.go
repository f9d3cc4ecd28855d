// Package repo implements the data persistence layer for journal entries,
// backed by GORM. This file provides the per-journal stores: the access
// contract orchestrators are built on.
//
// A store owns the shared *gorm.DB handle and a live.Feed of its table.
// Every committed write republishes the ordered listing to Watch
// subscribers. Semantics shared by both stores:
//
//   - Insert assigns an id when the entry has none and writes it back.
//   - Update and Delete address rows by id and are no-ops when it is absent.
//   - GetByID returns (nil, nil) when the id is absent.
//   - Storage errors are returned unchanged; nothing is retried.
package repo

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/memomiles-backend/internal/domain"
	"github.com/tbourn/memomiles-backend/internal/live"
)

// PersonalStore is the access contract for personal entries.
type PersonalStore struct {
	db   *gorm.DB
	feed *live.Feed[domain.PersonalEntry]
}

// NewPersonalStore binds a PersonalStore to db.
func NewPersonalStore(db *gorm.DB) *PersonalStore {
	s := &PersonalStore{db: db}
	s.feed = live.New(s.ListOnce)
	return s
}

// Insert persists e as a new row. e.ID and e.CreatedAt are filled in when zero.
func (s *PersonalStore) Insert(ctx context.Context, e *domain.PersonalEntry) error {
	if err := CreatePersonalEntry(ctx, s.db, e); err != nil {
		return err
	}
	s.committed(ctx, "insert")
	return nil
}

// Update replaces the row with e's id. Missing rows are ignored.
func (s *PersonalStore) Update(ctx context.Context, e domain.PersonalEntry) error {
	err := UpdatePersonalEntry(ctx, s.db, e)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.committed(ctx, "update")
	return nil
}

// Delete removes the row with e's id. Missing rows are ignored.
func (s *PersonalStore) Delete(ctx context.Context, e domain.PersonalEntry) error {
	err := DeletePersonalEntry(ctx, s.db, e.ID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.committed(ctx, "delete")
	return nil
}

// GetByID returns the entry with id, or nil when there is none.
func (s *PersonalStore) GetByID(ctx context.Context, id int64) (*domain.PersonalEntry, error) {
	e, err := GetPersonalEntry(ctx, s.db, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return e, err
}

// ListOnce returns a snapshot of all entries, newest first.
func (s *PersonalStore) ListOnce(ctx context.Context) ([]domain.PersonalEntry, error) {
	return ListPersonalEntries(ctx, s.db)
}

// Watch streams snapshots: the current one, then one per committed write,
// until ctx is done or the store is closed.
func (s *PersonalStore) Watch(ctx context.Context) (<-chan []domain.PersonalEntry, error) {
	return s.feed.Subscribe(ctx)
}

// Close ends all Watch subscriptions. The database handle is not closed;
// it is shared with the other store.
func (s *PersonalStore) Close() { s.feed.Close() }

func (s *PersonalStore) committed(ctx context.Context, op string) {
	countWrite(domain.KindPersonal, op)
	publish(ctx, domain.KindPersonal, op, s.feed.Publish)
}

// TravelStore is the access contract for travel entries.
type TravelStore struct {
	db   *gorm.DB
	feed *live.Feed[domain.TravelEntry]
}

// NewTravelStore binds a TravelStore to db.
func NewTravelStore(db *gorm.DB) *TravelStore {
	s := &TravelStore{db: db}
	s.feed = live.New(s.ListOnce)
	return s
}

// Insert persists e as a new row and fills in e.ID when it was zero.
func (s *TravelStore) Insert(ctx context.Context, e *domain.TravelEntry) error {
	if err := CreateTravelEntry(ctx, s.db, e); err != nil {
		return err
	}
	s.committed(ctx, "insert")
	return nil
}

// Update replaces every field of the row with e's id. Missing rows are ignored.
func (s *TravelStore) Update(ctx context.Context, e domain.TravelEntry) error {
	err := UpdateTravelEntry(ctx, s.db, e)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.committed(ctx, "update")
	return nil
}

// Delete removes the row with e's id. Missing rows are ignored.
func (s *TravelStore) Delete(ctx context.Context, e domain.TravelEntry) error {
	err := DeleteTravelEntry(ctx, s.db, e.ID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.committed(ctx, "delete")
	return nil
}

// GetByID returns the entry with id, or nil when there is none.
func (s *TravelStore) GetByID(ctx context.Context, id int64) (*domain.TravelEntry, error) {
	e, err := GetTravelEntry(ctx, s.db, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return e, err
}

// ListOnce returns a snapshot of all entries, highest id first.
func (s *TravelStore) ListOnce(ctx context.Context) ([]domain.TravelEntry, error) {
	return ListTravelEntries(ctx, s.db)
}

// Watch streams snapshots: the current one, then one per committed write.
func (s *TravelStore) Watch(ctx context.Context) (<-chan []domain.TravelEntry, error) {
	return s.feed.Subscribe(ctx)
}

// Close ends all Watch subscriptions.
func (s *TravelStore) Close() { s.feed.Close() }

func (s *TravelStore) committed(ctx context.Context, op string) {
	countWrite(domain.KindTravel, op)
	publish(ctx, domain.KindTravel, op, s.feed.Publish)
}

// publish refreshes watchers after a commit. The write has already succeeded,
// so a failed reload is logged rather than returned, and the caller's
// cancellation does not stop watchers from catching up.
func publish(ctx context.Context, kind domain.Kind, op string, fn func(context.Context) error) {
	if err := fn(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).
			Str("journal", string(kind)).
			Str("op", op).
			Msg("live snapshot refresh failed")
	}
}
