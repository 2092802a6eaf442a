package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/catalogfeed"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo/gormrepo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

type testServer struct {
	e      *echo.Echo
	repo   *gormrepo.GormRepo
	tokens *tokens.Service
}

func newTestServer(t *testing.T, feedURL string) *testServer {
	t.Helper()

	r := gormrepo.New(testutil.InitTestDB(t))
	tok := tokens.NewService([]byte("test-jwt-secret"), 0)
	pub := events.Nop{}

	authSvc := &service.AuthService{Users: r, Tokens: tok, Events: pub}
	deps := &Deps{
		Auth: &AuthHTTP{Svc: authSvc},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{
			Products: r,
			Feed:     catalogfeed.NewClient(feedURL),
			Index:    search.Nop{},
			Events:   pub,
		}},
		Cart:    &CartHTTP{Svc: &service.CartService{Carts: r, Products: r, Events: pub, CheckCumulativeStock: true}},
		Health:  &HealthHTTP{Store: r},
		Metrics: metrics.New(),
	}

	return &testServer{
		e:      New(logging.NewWithWriter(io.Discard, "error"), deps, false),
		repo:   r,
		tokens: tok,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) product(t *testing.T, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Title: "Phone", Description: "A phone", Price: 100, Stock: stock, Category: "smartphones"}
	require.NoError(t, s.repo.CreateProduct(context.Background(), p))
	return p
}

// register creates a user through the API and returns its token.
func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Alice", "email": email, "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out map[string]any
	decode(t, rec, &out)
	return out["token"].(string)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
