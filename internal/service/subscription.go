package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// SubscriptionService maintains the directed subscribe graph between users.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

var _ ISubscriptionService = (*SubscriptionService)(nil)

// Subscribe creates the edge subscriberID -> authorID and returns the author
// view with up to recipesLimit recipes (0 means all).
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, authorID uint, recipesLimit int) (*types.SubscriptionView, error) {
	if subscriberID == authorID {
		return nil, ErrSelfSubscription
	}
	db := s.db.WithContext(ctx)

	author, err := s.loadUser(db, authorID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadySubscribed
	}

	edge := &models.Subscription{SubscriberID: subscriberID, AuthorID: authorID}
	if err := db.Omit(clause.Associations).Create(edge).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	views, err := s.views(db, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Unsubscribe deletes the edge subscriberID -> authorID.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID uint) error {
	db := s.db.WithContext(ctx)

	if _, err := s.loadUser(db, authorID); err != nil {
		return err
	}

	res := db.Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("failed to unsubscribe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// ListSubscriptions returns every author subscriberID follows, in the order
// the subscriptions were made.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, subscriberID uint, recipesLimit int) ([]types.SubscriptionView, error) {
	views, _, err := s.PageSubscriptions(ctx, subscriberID, recipesLimit, 0, 0)
	return views, err
}

// PageSubscriptions returns limit subscriptions starting at offset, in
// subscription order, and the total number of subscriptions. A limit of 0
// returns everything from offset on.
func (s *SubscriptionService) PageSubscriptions(ctx context.Context, subscriberID uint, recipesLimit, offset, limit int) ([]types.SubscriptionView, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	query := db.
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.id ASC")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var authors []models.User
	if err := query.Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	views, err := s.views(db, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// IsSubscribed reports, for each of authorIDs, whether viewerID follows them.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(authorIDs))
	if viewerID == 0 || len(authorIDs) == 0 {
		return result, nil
	}

	var found []uint
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id IN ?", viewerID, authorIDs).
		Pluck("author_id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to check subscriptions: %w", err)
	}
	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

func (s *SubscriptionService) loadUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.First(&user, id).Error
	if isNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// views builds subscribed author views with recipe counts and the newest
// recipesLimit recipes of each author.
func (s *SubscriptionService) views(db *gorm.DB, authors []models.User, recipesLimit int) ([]types.SubscriptionView, error) {
	views := make([]types.SubscriptionView, 0, len(authors))
	if len(authors) == 0 {
		return views, nil
	}

	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}

	var counts []struct {
		AuthorID uint
		Total    int64
	}
	if err := db.Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	totals := make(map[uint]int64, len(counts))
	for _, c := range counts {
		totals[c.AuthorID] = c.Total
	}

	ranked := db.Model(&models.Recipe{}).
		Select("id, author_id, name, image, cooking_time, " +
			"ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY created_at DESC, id DESC) AS rn").
		Where("author_id IN ?", ids)
	q := db.Table("(?) AS ranked", ranked).
		Select("id, author_id, name, image, cooking_time").
		Order("author_id").Order("rn")
	if recipesLimit > 0 {
		q = q.Where("rn <= ?", recipesLimit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	byAuthor := make(map[uint][]types.RecipeSummary, len(authors))
	for i := range recipes {
		byAuthor[recipes[i].AuthorID] = append(byAuthor[recipes[i].AuthorID], types.NewRecipeSummary(&recipes[i]))
	}

	for i := range authors {
		author := &authors[i]
		summaries := byAuthor[author.ID]
		if summaries == nil {
			summaries = []types.RecipeSummary{}
		}
		views = append(views, types.SubscriptionView{
			UserView:     types.NewUserView(author, true),
			Recipes:      summaries,
			RecipesCount: totals[author.ID],
		})
	}
	return views, nil
}
