package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/render"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_list.txt"

type RecipeHandler struct {
	svc     Services
	pages   Paginator
	limiter *middleware.RateLimiter
	links   linkBuilder
}

func NewRecipeHandler(svc Services, pages Paginator, limiter *middleware.RateLimiter, links linkBuilder) *RecipeHandler {
	return &RecipeHandler{
		svc:     svc,
		pages:   pages,
		limiter: limiter,
		links:   links,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthRequired(h.svc.Auth)
	optional := middleware.AuthOptional(h.svc.Auth)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.POST("", required, h.limiter.Middleware(), h.CreateRecipe)
		recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.PATCH("/:id", required, h.UpdateRecipe)
		recipes.DELETE("/:id", required, h.DeleteRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("/:id/favorite", required, h.addTo(service.MembershipFavorite))
		recipes.DELETE("/:id/favorite", required, h.removeFrom(service.MembershipFavorite))
		recipes.POST("/:id/shopping_cart", required, h.addTo(service.MembershipCart))
		recipes.DELETE("/:id/shopping_cart", required, h.removeFrom(service.MembershipCart))
	}
}

// ListRecipes pages through recipes, newest first. The is_favorited and
// is_in_shopping_cart filters apply to the caller and are ignored for
// anonymous requests.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, ok := h.pages.parse(c)
	if !ok {
		return
	}
	viewer := viewerID(c)

	filter := types.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		Name:     c.Query("name"),
		Offset:   page.offset(),
		Limit:    page.limit,
	}
	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 0)
		if err != nil {
			respondError(c, &service.ValidationError{Fields: map[string]string{"author": "a valid integer is required."}})
			return
		}
		author := uint(id)
		filter.AuthorID = &author
	}
	if viewer != 0 {
		if flag(c.Query("is_favorited")) {
			filter.FavoritedBy = &viewer
		}
		if flag(c.Query("is_in_shopping_cart")) {
			filter.InCartOf = &viewer
		}
	}

	ctx := c.Request.Context()
	recipes, total, err := h.svc.Recipes.List(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := recipeViews(ctx, h.svc, viewer, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pages.respond(c, page, total, views)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.respondRecipe(c, http.StatusOK, id)
}

// CreateRecipe stores the inline image, then the recipe. The image is
// removed again if the recipe is rejected.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx := c.Request.Context()

	image, ok := h.storeImage(c, req.Image)
	if !ok {
		return
	}
	recipe, err := h.svc.Recipes.Create(ctx, viewerID(c), &req, image)
	if err != nil {
		h.svc.Images.Remove(ctx, image)
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusCreated, recipe.ID)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx := c.Request.Context()

	current, err := h.svc.Recipes.Authorize(ctx, viewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var image string
	if req.Image != nil {
		if image, ok = h.storeImage(c, *req.Image); !ok {
			return
		}
	}
	if _, err := h.svc.Recipes.Update(ctx, viewerID(c), id, &req, image); err != nil {
		h.svc.Images.Remove(ctx, image)
		respondError(c, err)
		return
	}
	if image != "" && current.Image != image {
		h.svc.Images.Remove(ctx, current.Image)
	}
	h.respondRecipe(c, http.StatusOK, id)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	recipe, err := h.svc.Recipes.Delete(ctx, viewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.svc.Images.Remove(ctx, recipe.Image)
	c.Status(http.StatusNoContent)
}

// GetLink returns the recipe's stable short link.
func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	code, err := h.svc.ShortLinks.CodeFor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"short-link": h.links.shortLink(c, code)})
}

// FollowShortLink redirects a short code to its recipe page.
func (h *RecipeHandler) FollowShortLink(c *gin.Context) {
	id, err := h.svc.ShortLinks.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.links.recipe(c, id))
}

func (h *RecipeHandler) addTo(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		summary, err := h.svc.Memberships.Add(c.Request.Context(), viewerID(c), id, kind)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, summary)
	}
}

func (h *RecipeHandler) removeFrom(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := h.svc.Memberships.Remove(c.Request.Context(), viewerID(c), id, kind); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart returns the caller's aggregated shopping list as a
// plain text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.svc.ShoppingList.Aggregate(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.ShoppingListDownloads.Inc()
	metrics.ShoppingListItems.Observe(float64(len(items)))

	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", service.FormatShoppingList(items))
}

func (h *RecipeHandler) respondRecipe(c *gin.Context, status int, id uint) {
	ctx := c.Request.Context()
	recipe, err := h.svc.Recipes.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := recipeViews(ctx, h.svc, viewerID(c), []models.Recipe{*recipe})
	if err != nil {
		respondError(c, err)
		return
	}
	view := views[0]
	view.TextHTML = render.Markdown(view.Text)
	c.JSON(status, view)
}

// storeImage stores a non-empty inline image and returns its URL.
func (h *RecipeHandler) storeImage(c *gin.Context, encoded string) (string, bool) {
	if strings.TrimSpace(encoded) == "" {
		return "", true
	}
	url, err := h.svc.Images.Store(c.Request.Context(), service.RecipeImageFolder, encoded)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return url, true
}

func flag(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}
