package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const (
	testBaseURL = "http://foodgram.test"
	pixelPNG    = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
)

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	svc    Services
	router *gin.Engine
	media  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLite(t)
	media := t.TempDir()
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	svc := NewServices(db, cfg, nil, service.NewLocalImageStore(media, "/media"))

	return &testEnv{t: t, db: db, svc: svc, router: newRouter(svc, media), media: media}
}

func newRouter(svc Services, media string) *gin.Engine {
	router := gin.New()
	RegisterRoutes(router, svc, Options{
		Paginator:     Paginator{DefaultSize: 6, MaxSize: 100},
		PublicBaseURL: testBaseURL,
		MediaDir:      media,
		MediaURL:      "/media",
	})
	return router
}

func (e *testEnv) token(user *models.User) string {
	e.t.Helper()
	token, err := e.svc.Auth.GenerateToken(user)
	require.NoError(e.t, err)
	return token
}

// do performs a request with an optional JSON body and bearer token.
func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Host = "foodgram.test"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decode(t, w, &body)
	return body
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

