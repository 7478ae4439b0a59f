package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// SetupRouter builds the engine with the shared middleware chain and all API routes.
func SetupRouter(svc api.Services, opts api.Options, corsOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(corsOrigins))

	api.RegisterRoutes(router, svc, opts)

	return router
}
