package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func whoami(c *gin.Context) {
	id, ok := UserID(c)
	c.JSON(http.StatusOK, gin.H{"user_id": id, "authenticated": ok, "is_admin": c.GetBool(IsAdminKey)})
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	validator := new(testhelpers.MockTokenValidator)
	validator.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: 7, IsAdmin: true}, nil)
	validator.On("ValidateToken", mock.Anything).Return(nil, errors.New("bad token"))

	r := gin.New()
	r.GET("/", AuthRequired(validator), whoami)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"bearer", "Bearer good", http.StatusOK},
		{"token scheme", "Token good", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7,"authenticated":true,"is_admin":true}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"code":"not_authenticated"`)
			}
		})
	}
}

func TestAuthOptional(t *testing.T) {
	validator := new(testhelpers.MockTokenValidator)
	validator.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: 3}, nil)
	validator.On("ValidateToken", mock.Anything).Return(nil, errors.New("bad token"))

	r := gin.New()
	r.GET("/", AuthOptional(validator), whoami)

	w := serve(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"authenticated":false,"is_admin":false}`, w.Body.String())

	w = serve(r, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":3,"authenticated":true,"is_admin":false}`, w.Body.String())

	w = serve(r, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
