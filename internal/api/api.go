// Package api exposes the Foodgram HTTP API under /api/v1.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services are the service-layer dependencies of the handlers.
type Services struct {
	Auth          service.IAuthService
	Users         service.IUserService
	Recipes       service.IRecipeService
	Memberships   service.IMembershipService
	ShoppingList  service.IShoppingListService
	Subscriptions service.ISubscriptionService
	Ingredients   service.IIngredientService
	Tags          service.ITagService
	Images        service.IImageService
	ShortLinks    service.IShortLinkService
}

// NewServices builds the service layer over db. redisClient may be nil.
func NewServices(db *gorm.DB, cfg *config.Config, redisClient *redis.Client, store service.ImageStore) Services {
	return Services{
		Auth:          service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, service.NewTokenBlocklist(redisClient)),
		Users:         service.NewUserService(db),
		Recipes:       service.NewRecipeService(db),
		Memberships:   service.NewMembershipService(db),
		ShoppingList:  service.NewShoppingListService(db),
		Subscriptions: service.NewSubscriptionService(db),
		Ingredients:   service.NewIngredientService(db),
		Tags:          service.NewTagService(db),
		Images:        service.NewImageService(store),
		ShortLinks:    service.NewShortLinkService(db),
	}
}

// Options configure route registration.
type Options struct {
	Paginator Paginator
	// PublicBaseURL prefixes short links. Empty means the request's own host.
	PublicBaseURL string
	// MediaDir is served at MediaURL when set.
	MediaDir string
	MediaURL string
	// RecipeLimiter limits recipe creation. Nil disables the limit.
	RecipeLimiter *middleware.RateLimiter
	// HealthCheck reports backing store health for GET /health.
	HealthCheck func(ctx context.Context) error
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services, opts Options) {
	useJSONFieldNames()

	router.GET("/health", healthHandler(opts.HealthCheck))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.MediaDir != "" {
		router.Static(mediaPath(opts.MediaURL), opts.MediaDir)
	}

	links := newLinkBuilder(opts.PublicBaseURL)

	recipeHandler := NewRecipeHandler(svc, opts.Paginator, opts.RecipeLimiter, links)
	router.GET("/s/:code", recipeHandler.FollowShortLink)

	v1 := router.Group("/api/v1")
	NewAuthHandler(svc.Auth).RegisterRoutes(v1)
	NewUserHandler(svc, opts.Paginator).RegisterRoutes(v1)
	NewCatalogHandler(svc.Tags, svc.Ingredients).RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)

	rateLimits := v1.Group("/rate-limits", middleware.AuthRequired(svc.Auth))
	rateLimits.GET("/recipe-creation", rateLimitStatus(opts.RecipeLimiter))
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

func rateLimitStatus(limiter *middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		status, err := limiter.GetRemainingRequests(c.Request.Context(), uintString(userID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

func mediaPath(url string) string {
	if url == "" || strings.Contains(url, "://") {
		return "/media"
	}
	return "/" + strings.Trim(url, "/")
}
