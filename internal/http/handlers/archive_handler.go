// Archive and health HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/memomiles-backend/internal/repo"
	"github.com/tbourn/memomiles-backend/internal/utils"
)

const maxPreviewLen = 500

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string      `json:"status" example:"ok"`
	Entries *repo.Stats `json:"entries,omitempty"`
}

// clampPreview parses ?preview, falling back to the configured length and
// bounding it to [1, maxPreviewLen].
func (h *Handlers) clampPreview(c *gin.Context) int {
	def := h.PreviewLen
	if def < 1 {
		def = 50
	}
	n := utils.AtoiDefault(c.Query("preview"), def)
	if n < 1 {
		return def
	}
	return utils.Clamp(n, 1, maxPreviewLen)
}

// GetArchive godoc
// @ID          getArchive
// @Summary     Archive listing
// @Description Both journals in stored order with body and activities shortened to previews.
// @Tags        Archive
// @Produce     json
//
// @Param       preview        query   int     false "Preview length in characters"  minimum(1) maximum(500) default(50)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} services.Archive
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /archive [get]
func (h *Handlers) GetArchive(c *gin.Context) {
	a, err := h.archive.Build(c.Request.Context(), h.clampPreview(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeArchiveFailed, err.Error())
		return
	}
	if etag, err := weakETag("archive", a); err == nil && notModified(c, etag) {
		return
	}
	ok(c, http.StatusOK, a)
}

// Health godoc
// @ID          health
// @Summary     Liveness and database check
// @Tags        Health
// @Produce     json
//
// @Success     200  {object} handlers.HealthResponse
// @Failure     503  {object} handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	if h.stats == nil {
		ok(c, http.StatusOK, HealthResponse{Status: "ok"})
		return
	}
	st, err := h.stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		ok(c, http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
		return
	}
	ok(c, http.StatusOK, HealthResponse{Status: "ok", Entries: &st})
}
