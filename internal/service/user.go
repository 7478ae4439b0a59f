package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserService handles registration, profile reads and account changes.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

var _ IUserService = (*UserService)(nil)

// Register creates a user with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	db := s.db.WithContext(ctx)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ve := &ValidationError{}
	if err := validateStruct(ve, req); err != nil {
		return nil, err
	}
	if err := ve.err(); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	if err := db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "username") {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logging.Ctx(ctx).Info().Uint("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if isNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// List returns one page of users ordered by id and the total user count.
func (s *UserService) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// SetPassword replaces the password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, userID uint, req *types.SetPasswordRequest) error {
	ve := &ValidationError{}
	if err := validateStruct(ve, req); err != nil {
		return err
	}
	if err := ve.err(); err != nil {
		return err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return newValidationError("current_password", "invalid password.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetAvatar stores the avatar URL and returns the one it replaced.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, url string) (string, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	previous := user.Avatar
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", url).Error; err != nil {
		return "", fmt.Errorf("failed to update avatar: %w", err)
	}
	return previous, nil
}

// Delete removes the account after checking the password. Their recipes,
// memberships and subscriptions in both directions go with it. It returns
// the image URLs that were referenced by the removed rows.
func (s *UserService) Delete(ctx context.Context, userID uint, currentPassword string) ([]string, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return nil, newValidationError("current_password", "invalid password.")
	}

	var images []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipes []models.Recipe
		if err := tx.Select("id", "image").Where("author_id = ?", userID).Find(&recipes).Error; err != nil {
			return err
		}
		ids := make([]uint, 0, len(recipes))
		for _, r := range recipes {
			ids = append(ids, r.ID)
			if r.Image != "" {
				images = append(images, r.Image)
			}
		}
		if err := deleteRecipes(tx, ids); err != nil {
			return err
		}
		for _, m := range []interface{}{&models.Favorite{}, &models.CartItem{}} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("subscriber_id = ? OR author_id = ?", userID, userID).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	if user.Avatar != "" {
		images = append(images, user.Avatar)
	}
	logging.Ctx(ctx).Info().Uint("user_id", userID).Int("images", len(images)).Msg("user deleted")
	return images, nil
}
