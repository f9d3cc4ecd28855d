package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/memomiles-backend/internal/domain"
	"github.com/tbourn/memomiles-backend/internal/http/middleware"
	"github.com/tbourn/memomiles-backend/internal/services"
)

func TestPersonal_CreateGetUpdateDelete(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api.r, http.MethodPost, "/personal", PersonalRequest{Title: "  My Day ", Body: "It was great!\r\n"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.PersonalEntry](t, w)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "My Day", created.Title)
	assert.Equal(t, "It was great!", created.Body)
	assert.NotZero(t, created.CreatedAt)

	w = do(t, api.r, http.MethodGet, "/personal/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[domain.PersonalEntry](t, w))

	w = do(t, api.r, http.MethodPut, "/personal/1", PersonalRequest{Title: "Updated Title", Body: "Updated Body"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.PersonalEntry](t, w)
	assert.Equal(t, "Updated Title", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	w = do(t, api.r, http.MethodGet, "/personal/1", nil)
	assert.Equal(t, updated, decode[domain.PersonalEntry](t, w))

	w = do(t, api.r, http.MethodDelete, "/personal/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, api.r, http.MethodGet, "/personal/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrCodeNotFound, errCode(t, w))

	// ids are not reused after a delete
	w = do(t, api.r, http.MethodPost, "/personal", PersonalRequest{Title: "Again", Body: "b"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(2), decode[domain.PersonalEntry](t, w).ID)
}

func TestPersonal_Validation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body any
		code string
	}{
		{"bad json", `{"title":`, ErrCodeBadRequest},
		{"blank title", PersonalRequest{Title: "   ", Body: "b"}, ErrCodeValidation},
		{"blank body", PersonalRequest{Title: "t", Body: "\n\t"}, ErrCodeValidation},
		{"missing both", map[string]string{}, ErrCodeValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, api.r, http.MethodPost, "/personal", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.code, errCode(t, w))
		})
	}

	w := do(t, api.r, http.MethodGet, "/personal", nil)
	assert.Empty(t, decode[ListPersonalResponse](t, w).Entries)
}

func TestPersonal_BadAndUnknownIDs(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/personal/abc", "/personal/0", "/personal/-3"} {
		w := do(t, api.r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	w := do(t, api.r, http.MethodPut, "/personal/99", PersonalRequest{Title: "t", Body: "b"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, api.r, http.MethodDelete, "/personal/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// nothing was created by the update of an unknown id
	w = do(t, api.r, http.MethodGet, "/personal", nil)
	assert.Empty(t, decode[ListPersonalResponse](t, w).Entries)
}

func TestPersonal_ListOrderAndETag(t *testing.T) {
	api := newTestAPI(t)

	for _, title := range []string{"first", "second"} {
		w := do(t, api.r, http.MethodPost, "/personal", PersonalRequest{Title: title, Body: "b"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(t, api.r, http.MethodGet, "/personal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ListPersonalResponse](t, w).Entries
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Contains(t, etag, `W/"personal-`)

	w = do(t, api.r, http.MethodGet, "/personal", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)

	do(t, api.r, http.MethodPost, "/personal", PersonalRequest{Title: "third", Body: "b"})
	w = do(t, api.r, http.MethodGet, "/personal", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, etag, w.Header().Get("ETag"))
}

func TestPersonal_IdempotentCreate(t *testing.T) {
	api := newTestAPI(t)
	req := PersonalRequest{Title: "My Day", Body: "It was great!"}

	w := do(t, api.r, http.MethodPost, "/personal", req, middleware.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusCreated, w.Code)
	first := decode[domain.PersonalEntry](t, w)

	w = do(t, api.r, http.MethodPost, "/personal", req, middleware.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(middleware.HeaderIdempotencyReplayed))
	assert.Equal(t, first, decode[domain.PersonalEntry](t, w))

	// same key on the other journal is a separate scope
	w = do(t, api.r, http.MethodPost, "/travel", TravelRequest{Destination: "Rome", Date: "May"}, middleware.HeaderIdempotencyKey, "k-1")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(t, api.r, http.MethodGet, "/personal", nil)
	assert.Len(t, decode[ListPersonalResponse](t, w).Entries, 1)

	w = do(t, api.r, http.MethodPost, "/personal", req, middleware.HeaderIdempotencyKey, "bad key!")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPersonal_ServiceErrors(t *testing.T) {
	h := New(failingPersonal{err: errors.New("disk I/O error")}, nil, nil, nil, nil)
	r := mount(h)

	w := do(t, r, http.MethodGet, "/personal", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ErrCodeListFailed, errCode(t, w))

	w = do(t, r, http.MethodPost, "/personal", PersonalRequest{Title: "t", Body: "b"})
	assert.Equal(t, ErrCodeCreateFailed, errCode(t, w))

	w = do(t, r, http.MethodGet, "/personal/1", nil)
	assert.Equal(t, ErrCodeGetFailed, errCode(t, w))

	w = do(t, r, http.MethodPut, "/personal/1", PersonalRequest{Title: "t", Body: "b"})
	assert.Equal(t, ErrCodeUpdateFailed, errCode(t, w))

	w = do(t, r, http.MethodDelete, "/personal/1", nil)
	assert.Equal(t, ErrCodeDeleteFailed, errCode(t, w))

	closed := mount(New(failingPersonal{err: services.ErrServiceClosed}, nil, nil, nil, nil))
	w = do(t, closed, http.MethodGet, "/personal/stream", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, ErrCodeUnavailable, errCode(t, w))
}
