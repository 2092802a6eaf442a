package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/apperr"
)

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/nope?x=1", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var out map[string]any
	decode(t, rec, &out)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Not Found - GET /nope?x=1", out["error"])
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, "")

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodGet, "/health/live", "", nil).Code)

	rec := s.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/health/ready"`)
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-123")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, "rid-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestErrorHandler_Development(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		development bool
		status      int
		body        string
	}{
		{
			name:   "internal hides cause",
			err:    apperr.Internal(errors.New("db exploded")),
			status: http.StatusInternalServerError,
			body:   `{"success":false,"error":"Server Error"}`,
		},
		{
			name:        "internal with stack in development",
			err:         apperr.Internal(errors.New("db exploded")),
			development: true,
			status:      http.StatusInternalServerError,
			body:        `{"success":false,"error":"Server Error","stack":"Server Error: db exploded"}`,
		},
		{
			name:   "validation details",
			err:    apperr.ErrMissingFields.With("title", "price"),
			status: http.StatusBadRequest,
			body:   `{"success":false,"error":"please provide all required fields","details":"title, price"}`,
		},
		{
			name:   "conflict",
			err:    fmt.Errorf("insert: %w", apperr.ErrConflict),
			status: http.StatusConflict,
			body:   `{"success":false,"error":"Duplicate field value"}`,
		},
		{
			name:   "upstream",
			err:    apperr.ErrUpstream.Wrap(errors.New("timeout")),
			status: http.StatusBadGateway,
			body:   `{"success":false,"error":"upstream request failed"}`,
		},
		{
			name:   "echo http error",
			err:    echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"),
			status: http.StatusRequestEntityTooLarge,
			body:   `{"success":false,"error":"Request Entity Too Large"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)

			ErrorHandler(tt.development)(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/x", nil), rec)

	ErrorHandler(false)(apperr.ErrProductNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}
