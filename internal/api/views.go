package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// viewerID returns the authenticated caller, or 0 for anonymous requests.
func viewerID(c *gin.Context) uint {
	id, _ := middleware.UserID(c)
	return id
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// userViews annotates users with whether viewer follows them.
func userViews(ctx context.Context, subs service.ISubscriptionService, viewer uint, users []models.User) ([]types.UserView, error) {
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subscribed, err := subs.IsSubscribed(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}
	views := make([]types.UserView, 0, len(users))
	for i := range users {
		views = append(views, types.NewUserView(&users[i], subscribed[users[i].ID]))
	}
	return views, nil
}

// recipeViews computes the viewer's annotations for recipes in three batched
// lookups. Anonymous viewers get false everywhere.
func recipeViews(ctx context.Context, svc Services, viewer uint, recipes []models.Recipe) ([]types.RecipeView, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		authorIDs[i] = recipes[i].AuthorID
	}

	var (
		a   types.Annotations
		err error
	)
	if a.Favorited, err = svc.Memberships.Contains(ctx, viewer, recipeIDs, service.MembershipFavorite); err != nil {
		return nil, err
	}
	if a.InCart, err = svc.Memberships.Contains(ctx, viewer, recipeIDs, service.MembershipCart); err != nil {
		return nil, err
	}
	if a.Subscribed, err = svc.Subscriptions.IsSubscribed(ctx, viewer, authorIDs); err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for i := range recipes {
		views = append(views, types.NewRecipeView(&recipes[i], a))
	}
	return views, nil
}

// linkBuilder makes absolute links to this service.
type linkBuilder struct {
	base string
}

func newLinkBuilder(base string) linkBuilder {
	return linkBuilder{base: strings.TrimRight(base, "/")}
}

func (l linkBuilder) root(c *gin.Context) string {
	if l.base != "" {
		return l.base
	}
	return requestScheme(c) + "://" + c.Request.Host
}

func (l linkBuilder) shortLink(c *gin.Context, code string) string {
	return l.root(c) + "/s/" + code
}

func (l linkBuilder) recipe(c *gin.Context, id uint) string {
	return l.root(c) + "/recipes/" + uintString(id)
}
