package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
}

// IUserService defines the interface for account operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	SetPassword(ctx context.Context, userID uint, req *types.SetPasswordRequest) error
	SetAvatar(ctx context.Context, userID uint, url string) (string, error)
	Delete(ctx context.Context, userID uint, currentPassword string) ([]string, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, authorID uint, req *types.CreateRecipeRequest, image string) (*models.Recipe, error)
	Update(ctx context.Context, actorID, recipeID uint, req *types.UpdateRecipeRequest, image string) (*models.Recipe, error)
	Delete(ctx context.Context, actorID, recipeID uint) (*models.Recipe, error)
	Authorize(ctx context.Context, actorID, recipeID uint) (*models.Recipe, error)
	Get(ctx context.Context, id uint) (*models.Recipe, error)
	List(ctx context.Context, filter types.RecipeFilter) ([]models.Recipe, int64, error)
}

// IMembershipService defines the interface for favorites and the shopping cart
type IMembershipService interface {
	Add(ctx context.Context, userID, recipeID uint, kind MembershipKind) (*types.RecipeSummary, error)
	Remove(ctx context.Context, userID, recipeID uint, kind MembershipKind) error
	Contains(ctx context.Context, userID uint, recipeIDs []uint, kind MembershipKind) (map[uint]bool, error)
}

type IShoppingListService interface {
	Aggregate(ctx context.Context, userID uint) ([]types.ShoppingListItem, error)
}

// ISubscriptionService defines the interface for the subscribe graph
type ISubscriptionService interface {
	Subscribe(ctx context.Context, subscriberID, authorID uint, recipesLimit int) (*types.SubscriptionView, error)
	Unsubscribe(ctx context.Context, subscriberID, authorID uint) error
	ListSubscriptions(ctx context.Context, subscriberID uint, recipesLimit int) ([]types.SubscriptionView, error)
	PageSubscriptions(ctx context.Context, subscriberID uint, recipesLimit, offset, limit int) ([]types.SubscriptionView, int64, error)
	IsSubscribed(ctx context.Context, viewerID uint, authorIDs []uint) (map[uint]bool, error)
}

type IIngredientService interface {
	Search(ctx context.Context, name string) ([]models.Ingredient, error)
	Get(ctx context.Context, id uint) (*models.Ingredient, error)
	Import(ctx context.Context, ingredients []models.Ingredient) (int64, error)
}

type ITagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id uint) (*models.Tag, error)
	Import(ctx context.Context, tags []models.Tag) (int64, error)
}

type IImageService interface {
	Store(ctx context.Context, folder, encoded string) (string, error)
	Remove(ctx context.Context, url string)
}

type IShortLinkService interface {
	CodeFor(ctx context.Context, recipeID uint) (string, error)
	Resolve(ctx context.Context, code string) (uint, error)
}
