package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotedeck/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotedeck/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotedeck/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotedeck/internal/app"
	"github.com/jsamuelsen/quotedeck/internal/domain"
	"github.com/jsamuelsen/quotedeck/internal/platform/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticSource struct {
	name  string
	quote *domain.Quote
	err   error
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) TryAcquire(ctx context.Context) (*domain.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.quote, nil
}

type memoryCache struct {
	quotes []domain.Quote
}

func (m *memoryCache) Record(ctx context.Context, q domain.Quote) error {
	m.quotes = append(m.quotes, q)
	return nil
}

func (m *memoryCache) SampleOne(ctx context.Context) (*domain.Quote, error) {
	if len(m.quotes) == 0 {
		return nil, domain.ErrNoQuote
	}

	q := m.quotes[0]

	return &q, nil
}

func (m *memoryCache) Size(ctx context.Context) (int, error) { return len(m.quotes), nil }
func (m *memoryCache) Clear(ctx context.Context) error       { m.quotes = nil; return nil }

type memoryFavorites struct {
	favorites []domain.Favorite
}

func (m *memoryFavorites) Add(ctx context.Context, q domain.Quote) (*domain.Favorite, error) {
	fav := domain.Favorite{Quote: q, AddedAt: time.Now().UTC()}
	m.favorites = append(m.favorites, fav)

	return &fav, nil
}

func (m *memoryFavorites) Remove(ctx context.Context, text string) error {
	for i, fav := range m.favorites {
		if fav.Text == text {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return nil
		}
	}

	return &domain.NotFoundError{Resource: "favorite", ID: text}
}

func (m *memoryFavorites) List(ctx context.Context, offset, limit int) ([]domain.Favorite, int, error) {
	return m.favorites, len(m.favorites), nil
}

// newTestEngine wires a full router around in-memory adapters.
func newTestEngine(t *testing.T, fetcher *staticSource) *gin.Engine {
	t.Helper()

	cache := &memoryCache{}
	dataset := &staticSource{
		name:  "dataset",
		quote: &domain.Quote{Text: "built-in wisdom", Author: domain.UnknownAuthor},
	}

	acquirer := app.NewAcquirer(app.AcquirerConfig{
		Fetcher: fetcher,
		Cache:   cache,
		Dataset: dataset,
		Logger:  discardLogger(),
	})

	favorites := app.NewFavoritesService(&memoryFavorites{}, discardLogger())

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:           discardLogger(),
		ServiceName:      "quotedeck-test",
		HealthHandler:    handlers.NewHealthHandler(handlers.BuildInfo{Version: "test"}),
		QuoteHandler:     handlers.NewQuoteHandler(acquirer, 100),
		FavoritesHandler: handlers.NewFavoritesHandler(favorites),
		Timeout:          5 * time.Second,
	})

	return engine
}

func TestRouter_QuoteEndpoint(t *testing.T) {
	fetcher := &staticSource{
		name:  "fetch",
		quote: &domain.Quote{Text: "carpe diem", Author: "Horace"},
	}
	engine := newTestEngine(t, fetcher)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "carpe diem", resp.Text)
	assert.Equal(t, "fetch", resp.Source)

	// Request ID is generated and echoed
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))
}

func TestRouter_RequestIDHonored(t *testing.T) {
	engine := newTestEngine(t, &staticSource{name: "fetch", err: errors.New("down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	engine.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_FavoritesFlow(t *testing.T) {
	engine := newTestEngine(t, &staticSource{name: "fetch", err: errors.New("down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites",
		strings.NewReader(`{"text":"carpe diem","author":"Horace"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.PaginatedResponse[dto.FavoriteResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/favorites",
		strings.NewReader(`{"text":"carpe diem"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_HealthRoutes(t *testing.T) {
	engine := newTestEngine(t, &staticSource{name: "fetch", err: errors.New("down")})

	for _, path := range []string{"/-/live", "/-/ready", "/-/build"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_PanicRecovered(t *testing.T) {
	engine := gin.New()
	SetupMinimalRouter(engine, discardLogger(), nil)
	engine.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
		MaxRequestSize:  1 << 20,
	}

	srv := New(cfg, discardLogger())
	require.NotNil(t, srv.Engine())
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	errCh := srv.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	if err, ok := <-errCh; ok {
		require.NoError(t, err)
	}
}

func TestServer_MaxBodySize(t *testing.T) {
	cfg := &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
		MaxRequestSize:  16,
	}

	srv := New(cfg, discardLogger())
	srv.Engine().POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.String(http.StatusOK, "%d", len(body))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo",
		strings.NewReader(strings.Repeat("x", 64)))
	srv.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
