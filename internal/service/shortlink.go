package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

const (
	shortCodeLength   = 8
	shortCodeAttempts = 5
)

// ShortLinkService hands out one stable short code per recipe.
type ShortLinkService struct {
	db *gorm.DB
}

func NewShortLinkService(db *gorm.DB) *ShortLinkService {
	return &ShortLinkService{db: db}
}

var _ IShortLinkService = (*ShortLinkService)(nil)

// CodeFor returns the recipe's short code, creating it on first use.
func (s *ShortLinkService) CodeFor(ctx context.Context, recipeID uint) (string, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to load recipe: %w", err)
	}
	if count == 0 {
		return "", ErrRecipeNotFound
	}

	for attempt := 0; attempt < shortCodeAttempts; attempt++ {
		if code, err := s.existing(db, recipeID); err != nil || code != "" {
			return code, err
		}

		link := &models.ShortLink{RecipeID: recipeID, Code: newShortCode()}
		err := db.Omit(clause.Associations).Create(link).Error
		if err == nil {
			return link.Code, nil
		}
		if !isUniqueViolation(err) {
			return "", fmt.Errorf("failed to create short link: %w", err)
		}
		// Either the code collided or another request linked the recipe first.
	}
	return "", fmt.Errorf("failed to allocate short link for recipe %d", recipeID)
}

// Resolve returns the recipe id behind code.
func (s *ShortLinkService) Resolve(ctx context.Context, code string) (uint, error) {
	var link models.ShortLink
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&link).Error
	if isNotFound(err) {
		return 0, ErrShortLinkNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve short link: %w", err)
	}
	return link.RecipeID, nil
}

func (s *ShortLinkService) existing(db *gorm.DB, recipeID uint) (string, error) {
	var link models.ShortLink
	err := db.Where("recipe_id = ?", recipeID).First(&link).Error
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load short link: %w", err)
	}
	return link.Code, nil
}

func newShortCode() string {
	return uuid.New().String()[:shortCodeLength]
}
