package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, addr string) *Server {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	cfg := &config.Config{
		ServerHost: "127.0.0.1",
		ServerPort: addr,
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
	}
	svc := api.NewServices(db, cfg, nil, service.NewLocalImageStore(t.TempDir(), "/media"))
	return New(cfg, svc, api.Options{
		Paginator:   api.Paginator{DefaultSize: 6, MaxSize: 100},
		HealthCheck: func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	})
}

func TestNew(t *testing.T) {
	srv := newTestServer(t, "8080")
	assert.Equal(t, "127.0.0.1:8080", srv.http.Addr)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestStartAndShutdown(t *testing.T) {
	srv := newTestServer(t, "0")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
