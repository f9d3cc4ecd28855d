// Package handlers provides HTTP handler implementations for the public API.
//
// This file declares the service contracts handlers depend on and the
// Handlers type that groups every endpoint. Handlers are transport-thin:
// they validate input, call the journal orchestrators, and translate results
// into HTTP responses (including conditional and streaming responses).
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/memomiles-backend/internal/domain"
	"github.com/tbourn/memomiles-backend/internal/repo"
	"github.com/tbourn/memomiles-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// PersonalService defines the personal journal operations consumed by HTTP
// handlers. *services.PersonalService satisfies it.
type PersonalService interface {
	// Create inserts a new entry and returns it with its assigned id.
	Create(ctx context.Context, title, body string) (*domain.PersonalEntry, error)
	// GetEntryByID returns the entry or nil when absent.
	GetEntryByID(ctx context.Context, id int64) (*domain.PersonalEntry, error)
	// Update replaces title and body; services.ErrEntryNotFound when absent.
	Update(ctx context.Context, id int64, title, body string) (*domain.PersonalEntry, error)
	// Delete removes the entry; services.ErrEntryNotFound when absent.
	Delete(ctx context.Context, id int64) error
	// ListAllOnce returns every entry, newest first.
	ListAllOnce(ctx context.Context) ([]domain.PersonalEntry, error)
	// ObserveAll streams listings until ctx ends.
	ObserveAll(ctx context.Context) (<-chan []domain.PersonalEntry, error)
}

// TravelService defines the travel journal operations consumed by HTTP
// handlers. *services.TravelService satisfies it.
type TravelService interface {
	Create(ctx context.Context, f services.TravelFields) (*domain.TravelEntry, error)
	GetEntryByID(ctx context.Context, id int64) (*domain.TravelEntry, error)
	Update(ctx context.Context, id int64, f services.TravelFields) (*domain.TravelEntry, error)
	Delete(ctx context.Context, id int64) error
	ListAllOnce(ctx context.Context) ([]domain.TravelEntry, error)
	ObserveAll(ctx context.Context) (<-chan []domain.TravelEntry, error)
}

// ArchiveService builds the combined preview listing.
type ArchiveService interface {
	Build(ctx context.Context, previewLen int) (*services.Archive, error)
}

// IdempotencyStore maps (journal, key) to the entry a create produced.
// repo.IdempotencyStore satisfies it.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope domain.Kind, key string) (int64, bool, error)
	Remember(ctx context.Context, scope domain.Kind, key string, entryID int64) error
}

// StatsFunc reports row counts for the health endpoint.
type StatsFunc func(ctx context.Context) (repo.Stats, error)

//
// Handler wiring
//

// Handlers groups HTTP endpoints for both journals, the archive and health.
type Handlers struct {
	personal PersonalService
	travel   TravelService
	archive  ArchiveService
	idem     IdempotencyStore
	stats    StatsFunc

	// PreviewLen is the archive preview length used when ?preview is absent.
	PreviewLen int
	// KeepAlive is the idle interval after which streams send a ping event.
	KeepAlive time.Duration
}

// New constructs a Handlers bound to the given services. idem and stats may
// be nil: creates are then never replayed and /health skips the counts.
func New(p PersonalService, t TravelService, a ArchiveService, idem IdempotencyStore, stats StatsFunc) *Handlers {
	return &Handlers{
		personal:   p,
		travel:     t,
		archive:    a,
		idem:       idem,
		stats:      stats,
		PreviewLen: services.DefaultPreviewLen,
		KeepAlive:  20 * time.Second,
	}
}

//
// Helpers
//

// parseID reads the :id route parameter. Ids are positive integers.
func parseID(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
