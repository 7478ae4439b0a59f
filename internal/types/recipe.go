package types

import (
	"time"

	"github.com/pageza/foodgram/backend/internal/models"
)

// RecipeSummary is the short recipe form shown in memberships and subscriptions.
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewRecipeSummary(r *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is the full recipe representation with per-viewer annotations.
type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []models.Tag           `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	TextHTML         string                 `json:"text_html,omitempty"`
	CookingTime      int                    `json:"cooking_time"`
	CreatedAt        time.Time              `json:"created_at"`
}

// Annotations are the viewer-dependent flags of a recipe listing.
type Annotations struct {
	Favorited  map[uint]bool
	InCart     map[uint]bool
	Subscribed map[uint]bool
}

func NewRecipeView(r *models.Recipe, a Annotations) RecipeView {
	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	lines := make([]RecipeIngredientView, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		lines = append(lines, RecipeIngredientView{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	return RecipeView{
		ID:               r.ID,
		Tags:             tags,
		Author:           NewUserView(&r.Author, a.Subscribed[r.AuthorID]),
		Ingredients:      lines,
		IsFavorited:      a.Favorited[r.ID],
		IsInShoppingCart: a.InCart[r.ID],
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		CreatedAt:        r.CreatedAt,
	}
}

// ShoppingListItem is one aggregated shopping list row.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}
