package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

const testSecret = "test-secret"

func TestLoginAndValidate(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")
	auth := service.NewAuthService(db, testSecret, time.Hour, nil)

	token, err := auth.Login(ctx, "  COOK@example.com ", testhelpers.TestPassword)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()
	testhelpers.CreateUser(t, db, "cook")
	auth := service.NewAuthService(db, testSecret, time.Hour, nil)

	_, err := auth.Login(ctx, "cook@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@example.com", testhelpers.TestPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejects(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")
	auth := service.NewAuthService(db, testSecret, time.Hour, nil)

	other := service.NewAuthService(db, "other-secret", time.Hour, nil)
	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		UserID:           user.ID,
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{})
	anonymousToken, err := anonymous.SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":     "not.a.token",
		"wrong key":   foreign,
		"expired":     expiredToken,
		"no user id":  anonymousToken,
		"empty token": "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.ValidateToken(ctx, token)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
		})
	}
}

func TestLogoutWithoutBlocklistKeepsTokenValid(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")
	auth := service.NewAuthService(db, testSecret, time.Hour, nil)

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))
	_, err = auth.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testhelpers.SetupSQLite(t)
	client := testhelpers.SetupRedis(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")
	auth := service.NewAuthService(db, testSecret, time.Hour, service.NewTokenBlocklist(client))

	first, err := auth.GenerateToken(user)
	require.NoError(t, err)
	second, err := auth.GenerateToken(user)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(ctx, first)
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, claims))

	_, err = auth.ValidateToken(ctx, first)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
	_, err = auth.ValidateToken(ctx, second)
	assert.NoError(t, err)

	ttl, err := client.TTL(ctx, "token_blocklist:"+claims.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Minute)
}
