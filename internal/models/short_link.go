package models

import "time"

type ShortLink struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	RecipeID  uint    `gorm:"not null;uniqueIndex"`
	Recipe    *Recipe `gorm:"constraint:OnDelete:CASCADE"`
	Code      string  `gorm:"size:16;not null;uniqueIndex"`
}
