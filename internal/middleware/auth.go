package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

// Context keys set by the auth middleware.
const (
	UserIDKey  = "user_id"
	IsAdminKey = "is_admin"
	ClaimsKey  = "claims"
)

// TokenValidator is an interface for validating bearer tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "authentication credentials were not provided.")
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "invalid token.")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// AuthOptional identifies the caller when a valid token is present and lets
// anonymous requests through. A malformed or invalid token is still rejected.
func AuthOptional(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		AuthRequired(validator)(c)
	}
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (uint, bool) {
	id, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	uid, ok := id.(uint)
	return uid, ok && uid != 0
}

func Claims(c *gin.Context) *types.TokenClaims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*types.TokenClaims); ok {
			return claims
		}
	}
	return nil
}

// bearerToken accepts "Bearer <token>" and the legacy "Token <token>" scheme.
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") && !strings.EqualFold(parts[0], "Token") {
		return "", false
	}
	return parts[1], true
}

func setClaims(c *gin.Context, claims *types.TokenClaims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(IsAdminKey, claims.IsAdmin)
	c.Set(ClaimsKey, claims)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
		"code":  "not_authenticated",
	})
}
