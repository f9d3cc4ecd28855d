// Travel journal HTTP handlers.
//
// This file exposes REST endpoints for travel entries:
//   - POST   /travel             (create, Idempotency-Key support)
//   - GET    /travel             (list, ETag support)
//   - GET    /travel/stream      (live listing, server-sent events)
//   - GET    /travel/{id}        (fetch)
//   - PUT    /travel/{id}        (replace every field)
//   - DELETE /travel/{id}        (delete)
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/memomiles-backend/internal/domain"
	"github.com/tbourn/memomiles-backend/internal/http/middleware"
	"github.com/tbourn/memomiles-backend/internal/services"
)

// TravelRequest is the JSON payload for creating or replacing a travel entry.
// Destination and date are required. Rating may be a number or a numeric
// string; when missing or unparseable it defaults to 1.
type TravelRequest struct {
	Destination string          `json:"destination" example:"Lisbon"`
	Date        string          `json:"date"        example:"12 May 2024"`
	Activities  string          `json:"activities"  example:"Tram 28, Belem tower"`
	Food        string          `json:"food"        example:"Pasteis de nata"`
	PeopleMet   string          `json:"people_met"  example:"Ana from the hostel"`
	Rating      json.RawMessage `json:"rating"      swaggertype:"integer" example:"5"`
}

// ListTravelResponse wraps the travel listing.
type ListTravelResponse struct {
	Entries []domain.TravelEntry `json:"entries"`
}

func (r TravelRequest) normalize() (services.TravelFields, error) {
	f := services.TravelFields{
		Destination: sanitizeLine(r.Destination),
		Date:        sanitizeLine(r.Date),
		Activities:  sanitizeText(r.Activities),
		Food:        sanitizeText(r.Food),
		PeopleMet:   sanitizeText(r.PeopleMet),
	}
	if err := required("destination", f.Destination); err != nil {
		return f, err
	}
	if err := required("date", f.Date); err != nil {
		return f, err
	}
	rating, err := parseRating(r.Rating)
	if err != nil {
		return f, err
	}
	f.Rating = rating
	return f, nil
}

func bindTravel(c *gin.Context) (services.TravelFields, bool) {
	var req TravelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return services.TravelFields{}, false
	}
	f, err := req.normalize()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return services.TravelFields{}, false
	}
	return f, true
}

// CreateTravel godoc
// @ID          createTravel
// @Summary     Create a travel entry
// @Description Stores a trip. Replays with the same Idempotency-Key return the original entry with 200.
// @Tags        Travel
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.TravelRequest  true  "Entry"
//
// @Success     201  {object}  domain.TravelEntry
// @Success     200  {object}  domain.TravelEntry  "Idempotent replay"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /travel [post]
func (h *Handlers) CreateTravel(c *gin.Context) {
	f, valid := bindTravel(c)
	if !valid {
		return
	}
	ctx := c.Request.Context()

	key, hasKey := middleware.GetIdempotencyKey(c)
	if hasKey && h.idem != nil {
		if id, found, err := h.idem.Lookup(ctx, domain.KindTravel, key); err == nil && found {
			if e, err := h.travel.GetEntryByID(ctx, id); err == nil && e != nil {
				c.Header(middleware.HeaderIdempotencyReplayed, "true")
				ok(c, http.StatusOK, e)
				return
			}
		}
	}

	e, err := h.travel.Create(ctx, f)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}

	if hasKey && h.idem != nil {
		if err := h.idem.Remember(ctx, domain.KindTravel, key, e.ID); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Int64("entry_id", e.ID).Msg("idempotency record failed")
		}
	}
	ok(c, http.StatusCreated, e)
}

// ListTravel godoc
// @ID          listTravel
// @Summary     List travel entries
// @Description Returns every travel entry, most recently added first. Supports weak ETag via If-None-Match.
// @Tags        Travel
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListTravelResponse
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /travel [get]
func (h *Handlers) ListTravel(c *gin.Context) {
	items, err := h.travel.ListAllOnce(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if etag, err := weakETag("travel", items); err == nil && notModified(c, etag) {
		return
	}
	ok(c, http.StatusOK, ListTravelResponse{Entries: items})
}

// StreamTravel godoc
// @ID          streamTravel
// @Summary     Stream travel entries
// @Description Server-sent events. Sends a "snapshot" event with the full listing on connect and after every change.
// @Tags        Travel
// @Produce     text/event-stream
//
// @Success     200  {array}  domain.TravelEntry
// @Failure     503  {object} handlers.ErrorResponse "Shutting down"
// @Router      /travel/stream [get]
func (h *Handlers) StreamTravel(c *gin.Context) {
	ch, err := h.travel.ObserveAll(c.Request.Context())
	if err != nil {
		streamFail(c, err)
		return
	}
	streamSnapshots(c, string(domain.KindTravel), ch, h.KeepAlive)
}

// GetTravel godoc
// @ID          getTravel
// @Summary     Get a travel entry
// @Tags        Travel
// @Produce     json
//
// @Param       id  path  int  true  "Entry id"  minimum(1)
//
// @Success     200  {object} domain.TravelEntry
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Entry not found"
// @Router      /travel/{id} [get]
func (h *Handlers) GetTravel(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	e, err := h.travel.GetEntryByID(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeGetFailed, err.Error())
		return
	}
	if e == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "entry not found")
		return
	}
	ok(c, http.StatusOK, e)
}

// UpdateTravel godoc
// @ID          updateTravel
// @Summary     Replace a travel entry
// @Tags        Travel
// @Accept      json
// @Produce     json
//
// @Param       id    path  int  true  "Entry id"  minimum(1)
// @Param       body  body  handlers.TravelRequest  true  "Entry"
//
// @Success     200  {object} domain.TravelEntry
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Entry not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /travel/{id} [put]
func (h *Handlers) UpdateTravel(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	f, valid := bindTravel(c)
	if !valid {
		return
	}
	e, err := h.travel.Update(c.Request.Context(), id, f)
	if errors.Is(err, services.ErrEntryNotFound) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "entry not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, e)
}

// DeleteTravel godoc
// @ID          deleteTravel
// @Summary     Delete a travel entry
// @Tags        Travel
//
// @Param       id  path  int  true  "Entry id"  minimum(1)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Entry not found"
// @Router      /travel/{id} [delete]
func (h *Handlers) DeleteTravel(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	err := h.travel.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrEntryNotFound) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "entry not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	noContent(c)
}
