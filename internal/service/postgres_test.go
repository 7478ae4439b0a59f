package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testhelpers.SetupPostgres(t)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "chef")
	reader := testhelpers.CreateUser(t, db, "reader")
	lunch := testhelpers.CreateTag(t, db, "lunch")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")

	recipes := service.NewRecipeService(db)
	create := func(name string, lines ...types.IngredientAmount) *models.Recipe {
		t.Helper()
		r, err := recipes.Create(ctx, author.ID, &types.CreateRecipeRequest{
			Name:        name,
			Text:        "Cook " + name + " slowly.",
			CookingTime: 20,
			Tags:        []uint{lunch.ID},
			Ingredients: lines,
		}, "")
		require.NoError(t, err)
		return r
	}
	bread := create("Bread", types.IngredientAmount{ID: flour.ID, Amount: 500}, types.IngredientAmount{ID: salt.ID, Amount: 10})
	pasta := create("Pasta", types.IngredientAmount{ID: flour.ID, Amount: 300})

	t.Run("duplicate line is rejected before any write", func(t *testing.T) {
		_, err := recipes.Create(ctx, author.ID, &types.CreateRecipeRequest{
			Name: "Broken", Text: "x", CookingTime: 5, Tags: []uint{lunch.ID},
			Ingredients: []types.IngredientAmount{{ID: salt.ID, Amount: 1}, {ID: salt.ID, Amount: 2}},
		}, "")
		var ve *service.ValidationError
		require.ErrorAs(t, err, &ve)
		var n int64
		require.NoError(t, db.Model(&models.Recipe{}).Where("name = ?", "Broken").Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("concurrent favorites keep one row", func(t *testing.T) {
		memberships := service.NewMembershipService(db)
		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = memberships.Add(ctx, reader.ID, bread.ID, service.MembershipFavorite)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, errors.Is(err, service.ErrDuplicateMembership), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, succeeded)

		var n int64
		require.NoError(t, db.Model(&models.Favorite{}).Where("user_id = ? AND recipe_id = ?", reader.ID, bread.ID).Count(&n).Error)
		assert.Equal(t, int64(1), n)
	})

	t.Run("shopping list sums by ingredient and unit", func(t *testing.T) {
		memberships := service.NewMembershipService(db)
		for _, id := range []uint{bread.ID, pasta.ID} {
			_, err := memberships.Add(ctx, reader.ID, id, service.MembershipCart)
			require.NoError(t, err)
		}
		items, err := service.NewShoppingListService(db).Aggregate(ctx, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, []types.ShoppingListItem{
			{Name: "flour", MeasurementUnit: "g", Amount: 800},
			{Name: "salt", MeasurementUnit: "g", Amount: 10},
		}, items)
	})

	t.Run("name search", func(t *testing.T) {
		found, total, err := recipes.List(ctx, types.RecipeFilter{Name: "past"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, found, 1)
		assert.Equal(t, pasta.ID, found[0].ID)
	})

	t.Run("self subscription violates check", func(t *testing.T) {
		err := db.Exec("INSERT INTO subscriptions (subscriber_id, author_id) VALUES (?, ?)", author.ID, author.ID).Error
		assert.Error(t, err)
	})

	t.Run("delete cascades", func(t *testing.T) {
		_, err := recipes.Delete(ctx, author.ID, bread.ID)
		require.NoError(t, err)
		var n int64
		require.NoError(t, db.Model(&models.Favorite{}).Where("recipe_id = ?", bread.ID).Count(&n).Error)
		assert.Zero(t, n)
	})
}
