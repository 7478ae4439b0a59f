// Package models holds the GORM models of the recipe store.
package models

// All lists every model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&CartItem{},
		&Subscription{},
		&ShortLink{},
	}
}
