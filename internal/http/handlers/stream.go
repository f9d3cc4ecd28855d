package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/memomiles-backend/internal/http/middleware"
)

// SSE event names.
const (
	eventSnapshot = "snapshot"
	eventPing     = "ping"
)

// streamSnapshots writes every value received from ch as a server-sent
// "snapshot" event until ch closes or the client goes away. While idle, a
// "ping" event is sent every keepAlive.
func streamSnapshots[T any](c *gin.Context, journal string, ch <-chan []T, keepAlive time.Duration) {
	done := middleware.TrackStream(journal)
	defer done()

	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	// Streams outlive the server's write timeout.
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})
	c.Status(http.StatusOK)
	c.Writer.Flush()

	if keepAlive <= 0 {
		keepAlive = 20 * time.Second
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, open := <-ch:
			if !open {
				return
			}
			c.SSEvent(eventSnapshot, snap)
			c.Writer.Flush()
			ticker.Reset(keepAlive)
		case <-ticker.C:
			c.SSEvent(eventPing, time.Now().UTC().Unix())
			c.Writer.Flush()
		}
	}
}
