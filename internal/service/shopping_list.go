package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/types"
)

// ShoppingListService aggregates the ingredients of the recipes in a cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

var _ IShoppingListService = (*ShoppingListService)(nil)

// Aggregate returns one item per (name, unit) across every ingredient line of
// every recipe in the user's cart, ordered by name then unit. An empty cart
// yields an empty list.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uint) ([]types.ShoppingListItem, error) {
	var lines []types.ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN cart_items ON cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("cart_items.user_id = ?", userID).
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart ingredients: %w", err)
	}
	return AggregateLines(lines), nil
}

type lineKey struct {
	name string
	unit string
}

// AggregateLines groups lines by (name, unit), sums their amounts and sorts
// the result byte-wise by name then unit.
func AggregateLines(lines []types.ShoppingListItem) []types.ShoppingListItem {
	index := make(map[lineKey]int, len(lines))
	items := make([]types.ShoppingListItem, 0, len(lines))
	for _, line := range lines {
		key := lineKey{name: line.Name, unit: line.MeasurementUnit}
		if i, ok := index[key]; ok {
			items[i].Amount += line.Amount
			continue
		}
		index[key] = len(items)
		items = append(items, line)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items
}

// FormatShoppingList renders items as plain text, one "<name> (<unit>) - <amount>" per line.
func FormatShoppingList(items []types.ShoppingListItem) []byte {
	var buf bytes.Buffer
	for _, item := range items {
		fmt.Fprintf(&buf, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	return buf.Bytes()
}
