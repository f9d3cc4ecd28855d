// Personal journal HTTP handlers.
//
// This file exposes REST endpoints for personal entries:
//   - POST   /personal             (create, Idempotency-Key support)
//   - GET    /personal             (list, ETag support)
//   - GET    /personal/stream      (live listing, server-sent events)
//   - GET    /personal/{id}        (fetch)
//   - PUT    /personal/{id}        (replace title and body)
//   - DELETE /personal/{id}        (delete)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/memomiles-backend/internal/domain"
	"github.com/tbourn/memomiles-backend/internal/http/middleware"
	"github.com/tbourn/memomiles-backend/internal/live"
	"github.com/tbourn/memomiles-backend/internal/services"
)

// PersonalRequest is the JSON payload for creating or replacing a personal
// entry. Both fields are required and trimmed.
type PersonalRequest struct {
	Title string `json:"title" example:"My Day"`
	Body  string `json:"body"  example:"It was great!"`
}

// ListPersonalResponse wraps the personal listing.
type ListPersonalResponse struct {
	Entries []domain.PersonalEntry `json:"entries"`
}

func (r PersonalRequest) normalize() (title, body string, err error) {
	title = sanitizeLine(r.Title)
	body = sanitizeText(r.Body)
	if err = required("title", title); err != nil {
		return
	}
	err = required("body", body)
	return
}

func bindPersonal(c *gin.Context) (title, body string, valid bool) {
	var req PersonalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return "", "", false
	}
	title, body, err := req.normalize()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return "", "", false
	}
	return title, body, true
}

// CreatePersonal godoc
// @ID          createPersonal
// @Summary     Create a personal entry
// @Description Stores a diary entry. Replays with the same Idempotency-Key return the original entry with 200.
// @Tags        Personal
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.PersonalRequest  true  "Entry"
//
// @Success     201  {object}  domain.PersonalEntry
// @Success     200  {object}  domain.PersonalEntry  "Idempotent replay"
// @Header      200  {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /personal [post]
func (h *Handlers) CreatePersonal(c *gin.Context) {
	title, body, valid := bindPersonal(c)
	if !valid {
		return
	}
	ctx := c.Request.Context()

	// Idempotency (replay path).
	key, hasKey := middleware.GetIdempotencyKey(c)
	if hasKey && h.idem != nil {
		if id, found, err := h.idem.Lookup(ctx, domain.KindPersonal, key); err == nil && found {
			if e, err := h.personal.GetEntryByID(ctx, id); err == nil && e != nil {
				c.Header(middleware.HeaderIdempotencyReplayed, "true")
				ok(c, http.StatusOK, e)
				return
			}
		}
	}

	e, err := h.personal.Create(ctx, title, body)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}

	// Idempotency (store path), best effort.
	if hasKey && h.idem != nil {
		if err := h.idem.Remember(ctx, domain.KindPersonal, key, e.ID); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Int64("entry_id", e.ID).Msg("idempotency record failed")
		}
	}
	ok(c, http.StatusCreated, e)
}

// ListPersonal godoc
// @ID          listPersonal
// @Summary     List personal entries
// @Description Returns every personal entry, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Personal
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListPersonalResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /personal [get]
func (h *Handlers) ListPersonal(c *gin.Context) {
	items, err := h.personal.ListAllOnce(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	resp := ListPersonalResponse{Entries: items}
	if etag, err := weakETag("personal", items); err == nil && notModified(c, etag) {
		return
	}
	ok(c, http.StatusOK, resp)
}

// StreamPersonal godoc
// @ID          streamPersonal
// @Summary     Stream personal entries
// @Description Server-sent events. Sends a "snapshot" event with the full listing on connect and after every change.
// @Tags        Personal
// @Produce     text/event-stream
//
// @Success     200  {array}  domain.PersonalEntry
// @Failure     503  {object} handlers.ErrorResponse "Shutting down"
// @Router      /personal/stream [get]
func (h *Handlers) StreamPersonal(c *gin.Context) {
	ch, err := h.personal.ObserveAll(c.Request.Context())
	if err != nil {
		streamFail(c, err)
		return
	}
	streamSnapshots(c, string(domain.KindPersonal), ch, h.KeepAlive)
}

// GetPersonal godoc
// @ID          getPersonal
// @Summary     Get a personal entry
// @Tags        Personal
// @Produce     json
//
// @Param       id  path  int  true  "Entry id"  minimum(1)
//
// @Success     200  {object} domain.PersonalEntry
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Entry not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /personal/{id} [get]
func (h *Handlers) GetPersonal(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	e, err := h.personal.GetEntryByID(c.Request.Context(), id)
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

// UpdatePersonal godoc
// @ID          updatePersonal
// @Summary     Replace a personal entry
// @Description Replaces title and body. The creation time is kept.
// @Tags        Personal
// @Accept      json
// @Produce     json
//
// @Param       id    path  int  true  "Entry id"  minimum(1)
// @Param       body  body  handlers.PersonalRequest  true  "Entry"
//
// @Success     200  {object} domain.PersonalEntry
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Entry not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /personal/{id} [put]
func (h *Handlers) UpdatePersonal(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	title, body, valid := bindPersonal(c)
	if !valid {
		return
	}
	e, err := h.personal.Update(c.Request.Context(), id, title, body)
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

// DeletePersonal godoc
// @ID          deletePersonal
// @Summary     Delete a personal entry
// @Tags        Personal
//
// @Param       id  path  int  true  "Entry id"  minimum(1)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Entry not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /personal/{id} [delete]
func (h *Handlers) DeletePersonal(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	err := h.personal.Delete(c.Request.Context(), id)
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

// streamFail maps an ObserveAll error to a response.
func streamFail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrServiceClosed) || errors.Is(err, live.ErrClosed) {
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "service is shutting down")
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
}
