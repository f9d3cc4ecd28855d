package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/memomiles-backend/internal/domain"
	"github.com/tbourn/memomiles-backend/internal/services"
)

// sseReader yields the data payloads of "snapshot" events.
type sseReader struct {
	t  *testing.T
	sc *bufio.Scanner
}

func (r sseReader) next() string {
	r.t.Helper()
	event := ""
	for r.sc.Scan() {
		line := r.sc.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:") && event == eventSnapshot:
			return strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	r.t.Fatalf("stream ended: %v", r.sc.Err())
	return ""
}

func openStream(t *testing.T, srv *httptest.Server, path string) (sseReader, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return sseReader{t: t, sc: bufio.NewScanner(resp.Body)}, func() {
		cancel()
		_ = resp.Body.Close()
	}
}

func TestStreamPersonal_EmitsOnWrites(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.r)
	defer srv.Close()

	rd, stop := openStream(t, srv, "/personal/stream")
	defer stop()

	assert.Equal(t, "[]", rd.next())

	_, err := api.personal.Create(context.Background(), "My Day", "It was great!")
	require.NoError(t, err)

	var snap []domain.PersonalEntry
	require.NoError(t, json.Unmarshal([]byte(rd.next()), &snap))
	require.Len(t, snap, 1)
	assert.Equal(t, "My Day", snap[0].Title)

	_, err = api.personal.Update(context.Background(), 1, "Updated Title", "Updated Body")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(rd.next()), &snap))
	assert.Equal(t, "Updated Title", snap[0].Title)
}

func TestStreamTravel_EndsWhenServiceCloses(t *testing.T) {
	api := newTestAPI(t)
	_, err := api.travel.Create(context.Background(), services.TravelFields{Destination: "Rome", Date: "May", Rating: 5})
	require.NoError(t, err)

	srv := httptest.NewServer(api.r)
	defer srv.Close()

	rd, stop := openStream(t, srv, "/travel/stream")
	defer stop()

	var snap []domain.TravelEntry
	require.NoError(t, json.Unmarshal([]byte(rd.next()), &snap))
	require.Len(t, snap, 1)

	// closing the service ends the response; drain to EOF
	api.travel.Close()
	lines := 0
	for rd.sc.Scan() {
		lines++
	}
	assert.NoError(t, rd.sc.Err())
	t.Logf("drained %d trailing lines", lines)

	w := do(t, api.r, http.MethodGet, "/travel/stream", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
