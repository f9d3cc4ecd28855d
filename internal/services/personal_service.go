// Package services – PersonalService
//
// This file implements PersonalService, the orchestrator presentation code
// talks to for diary entries. It owns a store handle and an explicit
// cancellation scope. AddEntry and UpdateEntry are fire-and-forget: they run
// on the scope, log failures, and report the first one through Wait. The
// synchronous Create/Update/Delete variants serve callers that need the
// outcome, such as HTTP handlers.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/memomiles-backend/internal/domain"
)

// PersonalRepo is the access contract PersonalService is built on.
// repo.PersonalStore satisfies it.
type PersonalRepo interface {
	// Insert persists e and writes the assigned id back into it.
	Insert(ctx context.Context, e *domain.PersonalEntry) error
	// Update replaces the row with e.ID; missing rows are ignored.
	Update(ctx context.Context, e domain.PersonalEntry) error
	// Delete removes the row with e.ID; missing rows are ignored.
	Delete(ctx context.Context, e domain.PersonalEntry) error
	// GetByID returns nil, nil when the id is absent.
	GetByID(ctx context.Context, id int64) (*domain.PersonalEntry, error)
	// ListOnce returns all entries, newest first.
	ListOnce(ctx context.Context) ([]domain.PersonalEntry, error)
	// Watch streams snapshots until ctx ends.
	Watch(ctx context.Context) (<-chan []domain.PersonalEntry, error)
}

// PersonalService orchestrates personal journal operations.
type PersonalService struct {
	Repo  PersonalRepo
	scope *scope
}

// NewPersonalService binds a service to r. Background writes stop when ctx
// is cancelled or Close is called.
func NewPersonalService(ctx context.Context, r PersonalRepo) *PersonalService {
	return &PersonalService{Repo: r, scope: newScope(ctx, "personal")}
}

func personalSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("services/PersonalService").Start(ctx, name, trace.WithAttributes(attrs...))
}

// AddEntry stores a new entry in the background. The creation time is
// assigned by the store.
func (s *PersonalService) AddEntry(title, body string) {
	s.scope.launch("add", func(ctx context.Context) error {
		_, err := s.Create(ctx, title, body)
		return err
	})
}

// Create stores a new entry and returns it with its assigned id.
func (s *PersonalService) Create(ctx context.Context, title, body string) (*domain.PersonalEntry, error) {
	ctx, span := personalSpan(ctx, "Create")
	defer span.End()

	e := &domain.PersonalEntry{Title: title, Body: body}
	if err := s.Repo.Insert(ctx, e); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("entry.id", e.ID))
	return e, nil
}

// GetEntryByID returns the entry, or nil when there is none.
func (s *PersonalService) GetEntryByID(ctx context.Context, id int64) (*domain.PersonalEntry, error) {
	ctx, span := personalSpan(ctx, "GetEntryByID", attribute.Int64("entry.id", id))
	defer span.End()
	return s.Repo.GetByID(ctx, id)
}

// UpdateEntry replaces title and body of entry id in the background.
// The original creation time is kept. An unknown id is a no-op.
func (s *PersonalService) UpdateEntry(id int64, title, body string) {
	s.scope.launch("update", func(ctx context.Context) error {
		ctx, span := personalSpan(ctx, "UpdateEntry", attribute.Int64("entry.id", id))
		defer span.End()
		return s.Repo.Update(ctx, domain.PersonalEntry{ID: id, Title: title, Body: body})
	})
}

// Update replaces title and body of entry id and returns the stored result.
// It returns ErrEntryNotFound when id does not exist.
func (s *PersonalService) Update(ctx context.Context, id int64, title, body string) (*domain.PersonalEntry, error) {
	ctx, span := personalSpan(ctx, "Update", attribute.Int64("entry.id", id))
	defer span.End()

	cur, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, ErrEntryNotFound
	}
	next := domain.PersonalEntry{ID: id, Title: title, Body: body, CreatedAt: cur.CreatedAt}
	if err := s.Repo.Update(ctx, next); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &next, nil
}

// Delete removes entry id. It returns ErrEntryNotFound when id does not exist.
func (s *PersonalService) Delete(ctx context.Context, id int64) error {
	ctx, span := personalSpan(ctx, "Delete", attribute.Int64("entry.id", id))
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

// ListAllOnce returns a snapshot of every entry, newest first.
func (s *PersonalService) ListAllOnce(ctx context.Context) ([]domain.PersonalEntry, error) {
	ctx, span := personalSpan(ctx, "ListAllOnce")
	defer span.End()
	return s.Repo.ListOnce(ctx)
}

// ObserveAll streams snapshots until ctx ends or the service is closed.
func (s *PersonalService) ObserveAll(ctx context.Context) (<-chan []domain.PersonalEntry, error) {
	if s.scope.done() {
		return nil, ErrServiceClosed
	}
	return s.Repo.Watch(s.scope.bind(ctx))
}

// Wait blocks until background writes launched so far have finished and
// returns the first failure among them.
func (s *PersonalService) Wait() error { return s.scope.wait() }

// Close cancels the service scope. In-flight background writes are
// interrupted and later launches fail with ErrServiceClosed.
func (s *PersonalService) Close() { s.scope.close() }
