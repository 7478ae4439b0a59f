package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, authorID uint, req *types.CreateRecipeRequest, image string) (*models.Recipe, error) {
	args := m.Called(ctx, authorID, req, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, actorID, recipeID uint, req *types.UpdateRecipeRequest, image string) (*models.Recipe, error) {
	args := m.Called(ctx, actorID, recipeID, req, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, actorID, recipeID uint) (*models.Recipe, error) {
	args := m.Called(ctx, actorID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Authorize(ctx context.Context, actorID, recipeID uint) (*models.Recipe, error) {
	args := m.Called(ctx, actorID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, filter types.RecipeFilter) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, filter)
	recipes, _ := args.Get(0).([]models.Recipe)
	return recipes, args.Get(1).(int64), args.Error(2)
}

// MockShoppingListService is a mock implementation of service.IShoppingListService
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Aggregate(ctx context.Context, userID uint) ([]types.ShoppingListItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]types.ShoppingListItem)
	return items, args.Error(1)
}
