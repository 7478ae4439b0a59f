package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a JWT token. RegisteredClaims.ID
// carries the token id used for revocation.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID  uint `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
}
