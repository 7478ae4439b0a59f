package models

import "time"

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint    `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	User      *User   `gorm:"constraint:OnDelete:CASCADE"`
	RecipeID  uint    `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index"`
	Recipe    *Recipe `gorm:"constraint:OnDelete:CASCADE"`
}

// CartItem puts a recipe into a user's shopping cart.
type CartItem struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint    `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	User      *User   `gorm:"constraint:OnDelete:CASCADE"`
	RecipeID  uint    `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index"`
	Recipe    *Recipe `gorm:"constraint:OnDelete:CASCADE"`
}
