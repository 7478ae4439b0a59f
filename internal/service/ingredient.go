package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// IngredientService serves the read-only ingredient catalog.
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

var _ IIngredientService = (*IngredientService)(nil)

// Search returns ingredients whose name contains name, case-insensitively.
// Names starting with name come first; each group is alphabetical.
func (s *IngredientService) Search(ctx context.Context, name string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name").Order("measurement_unit")
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+needle+"%")
	}

	ingredients := []models.Ingredient{}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	if needle != "" {
		sort.SliceStable(ingredients, func(i, j int) bool {
			pi := strings.HasPrefix(strings.ToLower(ingredients[i].Name), needle)
			pj := strings.HasPrefix(strings.ToLower(ingredients[j].Name), needle)
			return pi && !pj
		})
	}
	return ingredients, nil
}

func (s *IngredientService) Get(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).First(&ingredient, id).Error
	if isNotFound(err) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	return &ingredient, nil
}

// Import inserts ingredients, skipping (name, unit) pairs that already exist.
// It returns the number of rows inserted.
func (s *IngredientService) Import(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, 500)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to import ingredients: %w", res.Error)
	}
	return res.RowsAffected, nil
}
