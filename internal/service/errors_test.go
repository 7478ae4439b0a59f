package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestErrorCode(t *testing.T) {
	cases := map[string]error{
		"":                       nil,
		"validation_error":       newValidationError("tags", requiredMessage),
		"duplicate_membership":   fmt.Errorf("wrapped: %w", ErrDuplicateMembership),
		"membership_not_found":   ErrMembershipNotFound,
		"already_subscribed":     ErrAlreadySubscribed,
		"subscription_not_found": ErrSubscriptionNotFound,
		"self_subscription":      ErrSelfSubscription,
		"not_found":              ErrRecipeNotFound,
		"forbidden":              ErrForbidden,
		"invalid_credentials":    ErrInvalidCredentials,
		"internal_error":         errors.New("boom"),
	}
	for code, err := range cases {
		assert.Equal(t, code, ErrorCode(err), "error %v", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	ve := &ValidationError{}
	assert.NoError(t, ve.err())

	ve.add("tags", requiredMessage)
	ve.add("tags", "ignored")
	ve.add("cooking_time", "too long")

	err := ve.err()
	require.Error(t, err)
	assert.Equal(t, "validation failed: cooking_time: too long; tags: this field is required.", err.Error())
}

func TestIsUniqueViolation(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db, "member")
	recipe := testhelpers.CreateRecipe(t, db, user, "Soup", nil)

	require.NoError(t, db.Create(&models.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error)
	err := db.Create(&models.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))

	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
	assert.False(t, isUniqueViolation(nil))
}

func TestSelfSubscriptionRejectedByDatabase(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db, "narcissus")

	err := db.Create(&models.Subscription{SubscriberID: user.ID, AuthorID: user.ID}).Error
	assert.Error(t, err)
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	type payload struct {
		CookingTime int    `json:"cooking_time" validate:"min=1,max=1440"`
		Name        string `json:"name" validate:"required,max=4"`
	}
	ve := &ValidationError{}
	require.NoError(t, validateStruct(ve, &payload{CookingTime: 2000, Name: "too long"}))
	assert.Equal(t, "ensure this value is less than or equal to 1440.", ve.Fields["cooking_time"])
	assert.Equal(t, "ensure this field has no more than 4 characters.", ve.Fields["name"])
}
