package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/memomiles-backend/internal/domain"
	"github.com/tbourn/memomiles-backend/internal/http/middleware"
	"github.com/tbourn/memomiles-backend/internal/repo"
	"github.com/tbourn/memomiles-backend/internal/services"
)

// testAPI is the full journal stack over a temp-file database.
type testAPI struct {
	r        *gin.Engine
	h        *Handlers
	personal *services.PersonalService
	travel   *services.TravelService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), repo.DefaultDBFile))
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	ps := repo.NewPersonalStore(db)
	ts := repo.NewTravelStore(db)
	psvc := services.NewPersonalService(context.Background(), ps)
	tsvc := services.NewTravelService(context.Background(), ts)
	t.Cleanup(func() {
		psvc.Close()
		tsvc.Close()
		ps.Close()
		ts.Close()
	})

	h := New(psvc, tsvc, services.NewArchiveService(psvc, tsvc),
		repo.IdempotencyStore{DB: db, TTL: time.Hour},
		func(ctx context.Context) (repo.Stats, error) { return repo.JournalStats(ctx, db) })
	h.KeepAlive = time.Second

	return &testAPI{r: mount(h), h: h, personal: psvc, travel: tsvc}
}

// mount registers h the way the router does, minus logging and limits.
func mount(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	r.GET("/health", h.Health)
	r.GET("/archive", h.GetArchive)

	p := r.Group("/personal")
	p.POST("", h.CreatePersonal)
	p.GET("", h.ListPersonal)
	p.GET("/stream", h.StreamPersonal)
	p.GET("/:id", h.GetPersonal)
	p.PUT("/:id", h.UpdatePersonal)
	p.DELETE("/:id", h.DeletePersonal)

	tr := r.Group("/travel")
	tr.POST("", h.CreateTravel)
	tr.GET("", h.ListTravel)
	tr.GET("/stream", h.StreamTravel)
	tr.GET("/:id", h.GetTravel)
	tr.PUT("/:id", h.UpdateTravel)
	tr.DELETE("/:id", h.DeleteTravel)
	return r
}

// do sends a request with an optional JSON body and headers (k, v pairs).
func do(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, w).Code
}

// failingPersonal fails every call with err.
type failingPersonal struct{ err error }

func (f failingPersonal) Create(context.Context, string, string) (*domain.PersonalEntry, error) {
	return nil, f.err
}

func (f failingPersonal) GetEntryByID(context.Context, int64) (*domain.PersonalEntry, error) {
	return nil, f.err
}

func (f failingPersonal) Update(context.Context, int64, string, string) (*domain.PersonalEntry, error) {
	return nil, f.err
}

func (f failingPersonal) Delete(context.Context, int64) error { return f.err }

func (f failingPersonal) ListAllOnce(context.Context) ([]domain.PersonalEntry, error) {
	return nil, f.err
}

func (f failingPersonal) ObserveAll(context.Context) (<-chan []domain.PersonalEntry, error) {
	return nil, f.err
}

// failingArchive fails Build with err.
type failingArchive struct{ err error }

func (f failingArchive) Build(context.Context, int) (*services.Archive, error) { return nil, f.err }

// recordingArchive captures the preview length it was asked for.
type recordingArchive struct{ got int }

func (r *recordingArchive) Build(_ context.Context, n int) (*services.Archive, error) {
	r.got = n
	return &services.Archive{Personal: []services.PersonalPreview{}, Travel: []services.TravelPreview{}}, nil
}
