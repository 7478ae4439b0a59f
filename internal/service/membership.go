package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MembershipKind selects one of the per-user recipe sets.
type MembershipKind string

const (
	MembershipFavorite MembershipKind = "favorite"
	MembershipCart     MembershipKind = "shopping_cart"
)

func (k MembershipKind) model() interface{} {
	if k == MembershipCart {
		return &models.CartItem{}
	}
	return &models.Favorite{}
}

func (k MembershipKind) entry(userID, recipeID uint) interface{} {
	if k == MembershipCart {
		return &models.CartItem{UserID: userID, RecipeID: recipeID}
	}
	return &models.Favorite{UserID: userID, RecipeID: recipeID}
}

// MembershipService manages favorites and the shopping cart. Both are
// (user, recipe) sets where adding twice and removing twice are errors.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

var _ IMembershipService = (*MembershipService)(nil)

// Add puts recipeID into the user's set and returns the recipe snapshot.
func (s *MembershipService) Add(ctx context.Context, userID, recipeID uint, kind MembershipKind) (*types.RecipeSummary, error) {
	summary, err := s.add(ctx, userID, recipeID, kind)
	metrics.MembershipOperations.WithLabelValues(string(kind), "add", resultLabel(err)).Inc()
	return summary, err
}

func (s *MembershipService) add(ctx context.Context, userID, recipeID uint, kind MembershipKind) (*types.RecipeSummary, error) {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	err := db.Select("id", "name", "image", "cooking_time").First(&recipe, recipeID).Error
	if isNotFound(err) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	var count int64
	if err := db.Model(kind.model()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", kind, err)
	}
	if count > 0 {
		return nil, ErrDuplicateMembership
	}

	// A concurrent add can still win between the check and the insert;
	// the unique index decides.
	if err := db.Omit(clause.Associations).Create(kind.entry(userID, recipeID)).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateMembership
		}
		return nil, fmt.Errorf("failed to add to %s: %w", kind, err)
	}

	summary := types.NewRecipeSummary(&recipe)
	return &summary, nil
}

// Remove deletes recipeID from the user's set.
func (s *MembershipService) Remove(ctx context.Context, userID, recipeID uint, kind MembershipKind) error {
	err := s.remove(ctx, userID, recipeID, kind)
	metrics.MembershipOperations.WithLabelValues(string(kind), "remove", resultLabel(err)).Inc()
	return err
}

func (s *MembershipService) remove(ctx context.Context, userID, recipeID uint, kind MembershipKind) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	if count == 0 {
		return ErrRecipeNotFound
	}

	res := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(kind.model())
	if res.Error != nil {
		return fmt.Errorf("failed to remove from %s: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// Contains reports, for each of recipeIDs, whether it is in the user's set.
// Missing keys read as false.
func (s *MembershipService) Contains(ctx context.Context, userID uint, recipeIDs []uint, kind MembershipKind) (map[uint]bool, error) {
	result := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return result, nil
	}

	var found []uint
	if err := s.db.WithContext(ctx).Model(kind.model()).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", kind, err)
	}
	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

func resultLabel(err error) string {
	switch ErrorCode(err) {
	case "":
		return "ok"
	case "duplicate_membership":
		return "duplicate"
	case "membership_not_found", "not_found":
		return "not_found"
	default:
		return "error"
	}
}
