package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/repository"
	"github.com/mrlokans/catalog/internal/services"
)

// WishlistController handles the logged-in account's wishlist.
type WishlistController struct {
	repo repository.Repository
}

func NewWishlistController(repo repository.Repository) *WishlistController {
	return &WishlistController{repo: repo}
}

// List handles GET /api/wishlist.
func (wc *WishlistController) List(c *gin.Context) {
	username := c.GetString(auth.ContextKeyUsername)
	items, err := services.WishlistItems(wc.repo, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Add handles PUT /api/wishlist/:id. Adding an item twice is a no-op.
func (wc *WishlistController) Add(c *gin.Context) {
	wc.mutate(c, services.AddToWishlist)
}

// Remove handles DELETE /api/wishlist/:id.
func (wc *WishlistController) Remove(c *gin.Context) {
	wc.mutate(c, services.RemoveFromWishlist)
}

func (wc *WishlistController) mutate(c *gin.Context, op func(repository.Repository, string, uint) error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	username := c.GetString(auth.ContextKeyUsername)
	err = op(wc.repo, username, uint(id))
	switch {
	case errors.Is(err, services.ErrNoSuchItem):
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	case errors.Is(err, services.ErrUnknownAccount):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
