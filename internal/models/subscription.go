package models

import "time"

// Subscription is a directed follow edge from Subscriber to Author.
type Subscription struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	SubscriberID uint  `gorm:"not null;uniqueIndex:idx_subscription_pair;check:chk_no_self_subscription,subscriber_id <> author_id"`
	Subscriber   *User `gorm:"constraint:OnDelete:CASCADE"`
	AuthorID     uint  `gorm:"not null;uniqueIndex:idx_subscription_pair;index"`
	Author       *User `gorm:"constraint:OnDelete:CASCADE"`
}
