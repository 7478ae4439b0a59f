// Package mocks holds testify mocks of the service interfaces for handler tests.
package mocks

import "github.com/pageza/foodgram/backend/internal/service"

var (
	_ service.IRecipeService       = (*MockRecipeService)(nil)
	_ service.IShoppingListService = (*MockShoppingListService)(nil)
	_ service.ITagService          = (*MockTagService)(nil)
	_ service.IIngredientService   = (*MockIngredientService)(nil)
)
