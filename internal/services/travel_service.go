// Package services – TravelService
//
// This file implements TravelService, the orchestrator for travel entries.
// It mirrors PersonalService. Updates replace every field of the stored row
// through the store's Update; a missing id is never inserted.
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/memomiles-backend/internal/domain"
)

// TravelRepo is the access contract TravelService is built on.
// repo.TravelStore satisfies it.
type TravelRepo interface {
	Insert(ctx context.Context, e *domain.TravelEntry) error
	Update(ctx context.Context, e domain.TravelEntry) error
	Delete(ctx context.Context, e domain.TravelEntry) error
	GetByID(ctx context.Context, id int64) (*domain.TravelEntry, error)
	ListOnce(ctx context.Context) ([]domain.TravelEntry, error)
	Watch(ctx context.Context) (<-chan []domain.TravelEntry, error)
}

// TravelFields are the user-editable fields of a travel entry.
type TravelFields struct {
	Destination string
	Date        string
	Activities  string
	Food        string
	PeopleMet   string
	Rating      int
}

func (f TravelFields) entry(id int64) domain.TravelEntry {
	return domain.TravelEntry{
		ID:          id,
		Destination: f.Destination,
		Date:        f.Date,
		Activities:  f.Activities,
		Food:        f.Food,
		PeopleMet:   f.PeopleMet,
		Rating:      f.Rating,
	}
}

// TravelService orchestrates travel journal operations.
type TravelService struct {
	Repo  TravelRepo
	scope *scope
}

// NewTravelService binds a service to r under the cancellation scope ctx.
func NewTravelService(ctx context.Context, r TravelRepo) *TravelService {
	return &TravelService{Repo: r, scope: newScope(ctx, "travel")}
}

func travelSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("services/TravelService").Start(ctx, name, trace.WithAttributes(attrs...))
}

// AddEntry stores a new entry in the background.
func (s *TravelService) AddEntry(f TravelFields) {
	s.scope.launch("add", func(ctx context.Context) error {
		_, err := s.Create(ctx, f)
		return err
	})
}

// Create stores a new entry and returns it with its assigned id.
func (s *TravelService) Create(ctx context.Context, f TravelFields) (*domain.TravelEntry, error) {
	ctx, span := travelSpan(ctx, "Create")
	defer span.End()

	e := f.entry(0)
	if err := s.Repo.Insert(ctx, &e); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("entry.id", e.ID))
	return &e, nil
}

// GetEntryByID returns the entry, or nil when there is none.
func (s *TravelService) GetEntryByID(ctx context.Context, id int64) (*domain.TravelEntry, error) {
	ctx, span := travelSpan(ctx, "GetEntryByID", attribute.Int64("entry.id", id))
	defer span.End()
	return s.Repo.GetByID(ctx, id)
}

// UpdateEntry replaces entry id with f in the background. An unknown id is a
// no-op.
func (s *TravelService) UpdateEntry(id int64, f TravelFields) {
	s.scope.launch("update", func(ctx context.Context) error {
		ctx, span := travelSpan(ctx, "UpdateEntry", attribute.Int64("entry.id", id))
		defer span.End()
		return s.Repo.Update(ctx, f.entry(id))
	})
}

// Update replaces entry id with f. It returns ErrEntryNotFound when id does
// not exist.
func (s *TravelService) Update(ctx context.Context, id int64, f TravelFields) (*domain.TravelEntry, error) {
	ctx, span := travelSpan(ctx, "Update", attribute.Int64("entry.id", id))
	defer span.End()

	cur, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, ErrEntryNotFound
	}
	next := f.entry(id)
	if err := s.Repo.Update(ctx, next); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &next, nil
}

// Delete removes entry id. It returns ErrEntryNotFound when id does not exist.
func (s *TravelService) Delete(ctx context.Context, id int64) error {
	ctx, span := travelSpan(ctx, "Delete", attribute.Int64("entry.id", id))
	defer span.End()

	cur, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return ErrEntryNotFound
	}
	return s.Repo.Delete(ctx, *cur)
}

// ListAllOnce returns a snapshot of every entry, highest id first.
func (s *TravelService) ListAllOnce(ctx context.Context) ([]domain.TravelEntry, error) {
	ctx, span := travelSpan(ctx, "ListAllOnce")
	defer span.End()
	return s.Repo.ListOnce(ctx)
}

// ObserveAll streams snapshots until ctx ends or the service is closed.
func (s *TravelService) ObserveAll(ctx context.Context) (<-chan []domain.TravelEntry, error) {
	if s.scope.done() {
		return nil, ErrServiceClosed
	}
	return s.Repo.Watch(s.scope.bind(ctx))
}

// Wait blocks until background writes launched so far have finished.
func (s *TravelService) Wait() error { return s.scope.wait() }

// Close cancels the service scope.
func (s *TravelService) Close() { s.scope.close() }
