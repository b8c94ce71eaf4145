package routes

import (
	"musicstore_admin/internal/auth"
	"musicstore_admin/internal/handlers"
	"musicstore_admin/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the admin API. Everything under /api/v1 requires
// an admin bearer token: product management is a back-office surface.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, jwtSecret string) {
	api := ginRouter.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	api.Use(middleware.RequireRoles(auth.RoleAdmin))
	{
		appHandlers.FormHandler.RegisterRoutes(api)
		appHandlers.ImageHandler.RegisterRoutes(api)
	}
}
