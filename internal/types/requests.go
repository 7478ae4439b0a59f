package types

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

type DeleteAccountRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
}

// AvatarRequest carries a base64 data URL.
type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// IngredientAmount is one requested ingredient line.
type IngredientAmount struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// CreateRecipeRequest is the body of POST /recipes. Image is a base64 data URL.
type CreateRecipeRequest struct {
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1,max=1440"`
	Tags        []uint             `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
	Image       string             `json:"image"`
}

// UpdateRecipeRequest is the body of PATCH /recipes/:id. A nil field is left
// untouched; a non-nil collection replaces the stored one.
type UpdateRecipeRequest struct {
	Name        *string             `json:"name"`
	Text        *string             `json:"text"`
	CookingTime *int                `json:"cooking_time"`
	Tags        *[]uint             `json:"tags"`
	Ingredients *[]IngredientAmount `json:"ingredients"`
	Image       *string             `json:"image"`
}

// RecipeFilter narrows a recipe listing.
type RecipeFilter struct {
	AuthorID    *uint
	TagSlugs    []string
	FavoritedBy *uint
	InCartOf    *uint
	Name        string
	Offset      int
	Limit       int
}
