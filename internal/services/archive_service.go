// Package services – ArchiveService
//
// This file builds the archive listing shown to readers: both journals in
// their stored order, with long text fields shortened to previews.
package services

import (
	"context"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/memomiles-backend/internal/domain"
)

// DefaultPreviewLen is the preview length, in runes, used when none is set.
const DefaultPreviewLen = 50

const ellipsis = "..."

// Preview returns text shortened to n runes with "..." appended when it was
// cut. A non-positive n selects DefaultPreviewLen.
func Preview(text string, n int) string {
	if n <= 0 {
		n = DefaultPreviewLen
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + ellipsis
}

// PersonalPreview is one personal entry as listed in the archive.
type PersonalPreview struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Preview   string `json:"preview"`
	CreatedAt int64  `json:"created_at"`
}

// TravelPreview is one travel entry as listed in the archive.
type TravelPreview struct {
	ID          int64  `json:"id"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Preview     string `json:"preview"`
	Rating      int    `json:"rating"`
}

// Archive holds both journals.
type Archive struct {
	Personal []PersonalPreview `json:"personal"`
	Travel   []TravelPreview   `json:"travel"`
}

type personalLister interface {
	ListAllOnce(ctx context.Context) ([]domain.PersonalEntry, error)
}

type travelLister interface {
	ListAllOnce(ctx context.Context) ([]domain.TravelEntry, error)
}

// ArchiveService reads both journals through their services.
type ArchiveService struct {
	Personal   personalLister
	Travel     travelLister
	PreviewLen int
}

// NewArchiveService wires an ArchiveService with the default preview length.
func NewArchiveService(p *PersonalService, t *TravelService) *ArchiveService {
	return &ArchiveService{Personal: p, Travel: t, PreviewLen: DefaultPreviewLen}
}

// Build lists both journals. n overrides PreviewLen when positive.
func (s *ArchiveService) Build(ctx context.Context, n int) (*Archive, error) {
	if n <= 0 {
		n = s.PreviewLen
	}
	ctx, span := otel.Tracer("services/ArchiveService").Start(ctx, "Build")
	defer span.End()
	span.SetAttributes(attribute.Int("preview_len", n))

	personal, err := s.Personal.ListAllOnce(ctx)
	if err != nil {
		return nil, err
	}
	travel, err := s.Travel.ListAllOnce(ctx)
	if err != nil {
		return nil, err
	}

	out := &Archive{
		Personal: make([]PersonalPreview, 0, len(personal)),
		Travel:   make([]TravelPreview, 0, len(travel)),
	}
	for _, e := range personal {
		out.Personal = append(out.Personal, PersonalPreview{
			ID:        e.ID,
			Title:     e.Title,
			Preview:   Preview(e.Body, n),
			CreatedAt: e.CreatedAt,
		})
	}
	for _, e := range travel {
		out.Travel = append(out.Travel, TravelPreview{
			ID:          e.ID,
			Destination: e.Destination,
			Date:        e.Date,
			Preview:     Preview(e.Activities, n),
			Rating:      e.Rating,
		})
	}
	return out, nil
}
