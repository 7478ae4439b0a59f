package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestRegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{
		"email":      "cook@example.com",
		"username":   "cook",
		"first_name": "Jamie",
		"last_name":  "Cook",
		"password":   "long-enough-pass",
	}
	w := env.do(http.MethodPost, "/api/v1/users", body, "")
	requireStatus(t, w, http.StatusCreated)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(http.MethodPost, "/api/v1/users", body, "")
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "email_taken", errorOf(t, w).Code)

	w = env.do(http.MethodPost, "/api/v1/auth/token/login", map[string]string{"email": "cook@example.com", "password": "nope"}, "")
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "invalid_credentials", errorOf(t, w).Code)

	w = env.do(http.MethodPost, "/api/v1/auth/token/login", map[string]string{"email": "cook@example.com"}, "")
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "this field is required.", errorOf(t, w).Fields["password"])

	w = env.do(http.MethodPost, "/api/v1/auth/token/login", map[string]string{"email": "cook@example.com", "password": "long-enough-pass"}, "")
	requireStatus(t, w, http.StatusCreated)
	var login struct {
		Token string `json:"auth_token"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)

	w = env.do(http.MethodGet, "/api/v1/users/me", nil, login.Token)
	requireStatus(t, w, http.StatusOK)
	var me types.UserView
	decode(t, w, &me)
	assert.Equal(t, "cook", me.Username)

	w = env.do(http.MethodGet, "/api/v1/users/me", nil, "")
	requireStatus(t, w, http.StatusUnauthorized)

	w = env.do(http.MethodPost, "/api/v1/auth/token/logout", nil, login.Token)
	requireStatus(t, w, http.StatusNoContent)
}

func TestRegisterValidationFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/users", map[string]string{"email": "bad", "username": "cook"}, "")
	requireStatus(t, w, http.StatusBadRequest)
	body := errorOf(t, w)
	assert.Equal(t, "validation_error", body.Code)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")
	assert.NotContains(t, body.Fields, "username")
}

func TestListAndGetUsers(t *testing.T) {
	env := newTestEnv(t)
	reader := testhelpers.CreateUser(t, env.db, "reader")
	author := testhelpers.CreateUser(t, env.db, "author")
	_, err := env.svc.Subscriptions.Subscribe(context.Background(), reader.ID, author.ID, 0)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/v1/users?limit=1", nil, env.token(reader))
	requireStatus(t, w, http.StatusOK)
	var page struct {
		Count    int64            `json:"count"`
		Next     *string          `json:"next"`
		Previous *string          `json:"previous"`
		Results  []types.UserView `json:"results"`
	}
	decode(t, w, &page)
	assert.Equal(t, int64(2), page.Count)
	require.NotNil(t, page.Next)
	assert.Equal(t, "http://foodgram.test/api/v1/users?limit=1&page=2", *page.Next)
	assert.Nil(t, page.Previous)

	w = env.do(http.MethodGet, "/api/v1/users/"+uintString(author.ID), nil, env.token(reader))
	requireStatus(t, w, http.StatusOK)
	var view types.UserView
	decode(t, w, &view)
	assert.True(t, view.IsSubscribed)

	w = env.do(http.MethodGet, "/api/v1/users/"+uintString(author.ID), nil, "")
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &view)
	assert.False(t, view.IsSubscribed)

	requireStatus(t, env.do(http.MethodGet, "/api/v1/users/999", nil, ""), http.StatusNotFound)
	requireStatus(t, env.do(http.MethodGet, "/api/v1/users/abc", nil, ""), http.StatusNotFound)
}

func TestSubscriptionEndpoints(t *testing.T) {
	env := newTestEnv(t)
	reader := testhelpers.CreateUser(t, env.db, "reader")
	author := testhelpers.CreateUser(t, env.db, "author")
	testhelpers.CreateRecipe(t, env.db, author, "Soup", nil)
	testhelpers.CreateRecipe(t, env.db, author, "Stew", nil)
	token := env.token(reader)
	subscribe := "/api/v1/users/" + uintString(author.ID) + "/subscribe"

	w := env.do(http.MethodPost, "/api/v1/users/"+uintString(reader.ID)+"/subscribe", nil, token)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "self_subscription", errorOf(t, w).Code)

	w = env.do(http.MethodPost, subscribe+"?recipes_limit=1", nil, token)
	requireStatus(t, w, http.StatusCreated)
	var view types.SubscriptionView
	decode(t, w, &view)
	assert.Equal(t, int64(2), view.RecipesCount)
	assert.Len(t, view.Recipes, 1)
	assert.True(t, view.IsSubscribed)

	w = env.do(http.MethodPost, subscribe, nil, token)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "already_subscribed", errorOf(t, w).Code)

	w = env.do(http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=5", nil, token)
	requireStatus(t, w, http.StatusOK)
	var page struct {
		Count   int64                    `json:"count"`
		Results []types.SubscriptionView `json:"results"`
	}
	decode(t, w, &page)
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	assert.Len(t, page.Results[0].Recipes, 2)

	w = env.do(http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=abc", nil, token)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, errorOf(t, w).Fields, "recipes_limit")

	requireStatus(t, env.do(http.MethodDelete, subscribe, nil, token), http.StatusNoContent)
	w = env.do(http.MethodDelete, subscribe, nil, token)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "subscription_not_found", errorOf(t, w).Code)

	w = env.do(http.MethodPost, "/api/v1/users/999/subscribe", nil, token)
	requireStatus(t, w, http.StatusNotFound)

	requireStatus(t, env.do(http.MethodPost, subscribe, nil, ""), http.StatusUnauthorized)
}

func TestAvatarEndpoints(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "cook")
	token := env.token(user)

	w := env.do(http.MethodPut, "/api/v1/users/me/avatar", map[string]string{"avatar": pixelPNG}, token)
	requireStatus(t, w, http.StatusOK)
	var resp struct {
		Avatar string `json:"avatar"`
	}
	decode(t, w, &resp)
	require.True(t, strings.HasPrefix(resp.Avatar, "/media/avatars/"))
	path := filepath.Join(env.media, strings.TrimPrefix(resp.Avatar, "/media/"))
	_, err := os.Stat(path)
	require.NoError(t, err)

	served := env.do(http.MethodGet, resp.Avatar, nil, "")
	requireStatus(t, served, http.StatusOK)

	w = env.do(http.MethodPut, "/api/v1/users/me/avatar", map[string]string{"avatar": "data:text/plain;base64,aGVsbG8="}, token)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "invalid_image", errorOf(t, w).Code)

	requireStatus(t, env.do(http.MethodDelete, "/api/v1/users/me/avatar", nil, token), http.StatusNoContent)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSetPasswordAndDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "cook")
	token := env.token(user)

	w := env.do(http.MethodPost, "/api/v1/users/set_password", map[string]string{
		"new_password": "another-pass", "current_password": "wrong",
	}, token)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, errorOf(t, w).Fields, "current_password")

	w = env.do(http.MethodPost, "/api/v1/users/set_password", map[string]string{
		"new_password": "another-pass", "current_password": testhelpers.TestPassword,
	}, token)
	requireStatus(t, w, http.StatusNoContent)

	w = env.do(http.MethodDelete, "/api/v1/users/me", map[string]string{"current_password": "another-pass"}, token)
	requireStatus(t, w, http.StatusNoContent)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
