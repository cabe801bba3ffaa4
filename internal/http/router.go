// Package http exposes the catalog over a JSON API. Handlers are thin:
// they bind requests, call the repository or a service function, and
// translate the documented error kinds into status codes. All storage
// semantics live behind the repository contract.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/repository"
)

// RouterConfig carries every dependency the router needs, so tests can
// assemble it with any backend.
type RouterConfig struct {
	Repo           repository.Repository
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	PageSize       int
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	health := NewHealthController(cfg.Repo, cfg.Version)
	router.GET("/health", health.Health)

	items := NewItemsController(cfg.Repo, cfg.SessionManager, cfg.PageSize)
	router.GET("/api/items", items.List)
	router.GET("/api/items/:id", items.Detail)
	router.GET("/api/categories", items.Categories)
	router.GET("/api/vendors", items.Vendors)

	if cfg.AuthService != nil && cfg.SessionManager != nil {
		authController := NewAuthController(cfg.AuthService, cfg.SessionManager)
		router.POST("/api/auth/register", authController.Register)
		router.POST("/api/auth/login", authController.Login)
		router.POST("/api/auth/logout", authController.Logout)

		authed := router.Group("/api", cfg.SessionManager.RequireAuth())

		reviews := NewReviewsController(cfg.Repo)
		authed.POST("/items/:id/reviews", reviews.Create)

		wishlist := NewWishlistController(cfg.Repo)
		authed.GET("/wishlist", wishlist.List)
		authed.PUT("/wishlist/:id", wishlist.Add)
		authed.DELETE("/wishlist/:id", wishlist.Remove)

		profile := NewProfileController(cfg.Repo)
		authed.GET("/profile/history", profile.History)
	}

	return router
}
