package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func registerRequest() *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     "Cook@Example.com",
		Username:  "cook",
		FirstName: "Jamie",
		LastName:  "Cook",
		Password:  "long-enough-pass",
	}
}

func TestRegister(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewUserService(db)

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.NotEqual(t, "long-enough-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("long-enough-pass")))
}

func TestRegisterRejectsTakenIdentity(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewUserService(db)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	sameEmail := registerRequest()
	sameEmail.Username = "another"
	_, err = svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	sameName := registerRequest()
	sameName.Email = "other@example.com"
	_, err = svc.Register(ctx, sameName)
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewUserService(db)

	req := registerRequest()
	req.Email = "not-an-email"
	req.Username = "bad name!"
	req.Password = "short"
	req.FirstName = ""

	_, err := svc.Register(context.Background(), req)
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "username")
	assert.Contains(t, ve.Fields, "password")
	assert.Equal(t, "this field is required.", ve.Fields["first_name"])
}

func TestSetPassword(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewUserService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")

	err := svc.SetPassword(ctx, user.ID, &types.SetPasswordRequest{
		NewPassword:     "brand-new-pass",
		CurrentPassword: "wrong",
	})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "current_password")

	require.NoError(t, svc.SetPassword(ctx, user.ID, &types.SetPasswordRequest{
		NewPassword:     "brand-new-pass",
		CurrentPassword: testhelpers.TestPassword,
	}))
	stored, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-pass")))
}

func TestSetAvatarReturnsPrevious(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewUserService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")

	previous, err := svc.SetAvatar(ctx, user.ID, "/media/avatars/1.png")
	require.NoError(t, err)
	assert.Empty(t, previous)

	previous, err = svc.SetAvatar(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "/media/avatars/1.png", previous)

	_, err = svc.SetAvatar(ctx, 999, "x")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestListUsersPaginates(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewUserService(db)
	for _, name := range []string{"a", "b", "c"} {
		testhelpers.CreateUser(t, db, name)
	}

	users, total, err := svc.List(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 1)
	assert.Equal(t, "b", users[0].Username)
}

func TestDeleteUserRemovesOwnedRows(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	leaving := testhelpers.CreateUser(t, db, "leaving")
	staying := testhelpers.CreateUser(t, db, "staying")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	own := testhelpers.CreateRecipe(t, db, leaving, "Own", nil, testhelpers.Line{Ingredient: flour, Amount: 1})
	require.NoError(t, db.Model(own).Update("image", "/media/recipes/own.png").Error)
	theirs := testhelpers.CreateRecipe(t, db, staying, "Theirs", nil)

	memberships := service.NewMembershipService(db)
	_, err := memberships.Add(ctx, staying.ID, own.ID, service.MembershipFavorite)
	require.NoError(t, err)
	_, err = memberships.Add(ctx, leaving.ID, theirs.ID, service.MembershipCart)
	require.NoError(t, err)
	subscriptions := service.NewSubscriptionService(db)
	_, err = subscriptions.Subscribe(ctx, leaving.ID, staying.ID, 0)
	require.NoError(t, err)
	_, err = subscriptions.Subscribe(ctx, staying.ID, leaving.ID, 0)
	require.NoError(t, err)

	_, err = svc.Delete(ctx, leaving.ID, "wrong")
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)

	images, err := svc.Delete(ctx, leaving.ID, testhelpers.TestPassword)
	require.NoError(t, err)
	assert.Equal(t, []string{"/media/recipes/own.png"}, images)

	_, err = svc.Get(ctx, leaving.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	var recipes, favorites, carts, subs, lines int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, db.Model(&models.Favorite{}).Count(&favorites).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&carts).Error)
	require.NoError(t, db.Model(&models.Subscription{}).Count(&subs).Error)
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&lines).Error)
	assert.Equal(t, int64(1), recipes)
	assert.Zero(t, favorites)
	assert.Zero(t, carts)
	assert.Zero(t, subs)
	assert.Zero(t, lines)
}
