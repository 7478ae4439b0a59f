package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves accounts, avatars and subscriptions.
type UserHandler struct {
	svc   Services
	pages Paginator
}

func NewUserHandler(svc Services, pages Paginator) *UserHandler {
	return &UserHandler{svc: svc, pages: pages}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthRequired(h.svc.Auth)
	optional := middleware.AuthOptional(h.svc.Auth)

	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", optional, h.ListUsers)
		users.GET("/me", required, h.Me)
		users.DELETE("/me", required, h.DeleteMe)
		users.PUT("/me/avatar", required, h.SetAvatar)
		users.DELETE("/me/avatar", required, h.DeleteAvatar)
		users.POST("/set_password", required, h.SetPassword)
		users.GET("/subscriptions", required, h.ListSubscriptions)
		users.GET("/:id", optional, h.GetUser)
		users.POST("/:id/subscribe", required, h.Subscribe)
		users.DELETE("/:id/subscribe", required, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.svc.Users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, ok := h.pages.parse(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	users, total, err := h.svc.Users.List(ctx, page.offset(), page.limit)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := userViews(ctx, h.svc.Subscriptions, viewerID(c), users)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pages.respond(c, page, total, views)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.respondUser(c, id)
}

func (h *UserHandler) Me(c *gin.Context) {
	h.respondUser(c, viewerID(c))
}

func (h *UserHandler) respondUser(c *gin.Context, id uint) {
	ctx := c.Request.Context()
	user, err := h.svc.Users.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	subscribed, err := h.svc.Subscriptions.IsSubscribed(ctx, viewerID(c), []uint{id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserView(user, subscribed[id]))
}

// SetAvatar stores a base64 avatar and replaces the previous one.
func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req types.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx := c.Request.Context()

	url, err := h.svc.Images.Store(ctx, service.AvatarFolder, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	previous, err := h.svc.Users.SetAvatar(ctx, viewerID(c), url)
	if err != nil {
		h.svc.Images.Remove(ctx, url)
		respondError(c, err)
		return
	}
	h.svc.Images.Remove(ctx, previous)
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	ctx := c.Request.Context()
	previous, err := h.svc.Users.SetAvatar(ctx, viewerID(c), "")
	if err != nil {
		respondError(c, err)
		return
	}
	h.svc.Images.Remove(ctx, previous)
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.svc.Users.SetPassword(c.Request.Context(), viewerID(c), &req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteMe removes the caller's account and revokes the token used.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	var req types.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx := c.Request.Context()

	images, err := h.svc.Users.Delete(ctx, viewerID(c), req.CurrentPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, url := range images {
		h.svc.Images.Remove(ctx, url)
	}
	if err := h.svc.Auth.Logout(ctx, middleware.Claims(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions pages through the authors the caller follows.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	page, ok := h.pages.parse(c)
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(c, "recipes_limit")
	if !ok {
		return
	}

	views, total, err := h.svc.Subscriptions.PageSubscriptions(c.Request.Context(), viewerID(c), recipesLimit, page.offset(), page.limit)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pages.respond(c, page, total, views)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(c, "recipes_limit")
	if !ok {
		return
	}
	view, err := h.svc.Subscriptions.Subscribe(c.Request.Context(), viewerID(c), authorID, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Subscriptions.Unsubscribe(c.Request.Context(), viewerID(c), authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
