package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestHugePageNumbersAreInvalid(t *testing.T) {
	env := newTestEnv(t)
	chef := testhelpers.CreateUser(t, env.db, "chef")
	reader := testhelpers.CreateUser(t, env.db, "reader")
	testhelpers.CreateRecipe(t, env.db, chef, "Bread", nil)
	_, err := env.svc.Subscriptions.Subscribe(context.Background(), reader.ID, chef.ID, 0)
	require.NoError(t, err)

	for _, path := range []string{
		"/api/v1/users/subscriptions?page=4611686018427387905&limit=6",
		"/api/v1/recipes?page=4611686018427387905&limit=6",
		"/api/v1/users?page=9223372036854775807",
	} {
		w := env.do(http.MethodGet, path, nil, env.token(reader))
		requireStatus(t, w, http.StatusNotFound)
		assert.Equal(t, "invalid page.", errorOf(t, w).Error, path)
	}

	// The largest page whose offset still fits is past the end, not a crash.
	w := env.do(http.MethodGet, "/api/v1/users/subscriptions?page=1537228672809129302&limit=6", nil, env.token(reader))
	requireStatus(t, w, http.StatusNotFound)
}
