package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository"
	"github.com/mrlokans/catalog/internal/search"
	"github.com/mrlokans/catalog/internal/services"
)

// ItemsController serves catalog browsing and search.
type ItemsController struct {
	repo     repository.Repository
	sessions *auth.SessionManager
	pageSize int
}

func NewItemsController(repo repository.Repository, sessions *auth.SessionManager, pageSize int) *ItemsController {
	if pageSize <= 0 {
		pageSize = 21
	}
	return &ItemsController{repo: repo, sessions: sessions, pageSize: pageSize}
}

// List handles GET /api/items. Optional query parameters: repeatable
// "category" and "vendor" filters, a case-sensitive "search" substring and
// a 1-based "page".
func (ic *ItemsController) List(c *gin.Context) {
	var categories []entities.Category
	for _, name := range c.QueryArray("category") {
		categories = append(categories, entities.Category{Name: name})
	}

	items, err := search.Cascade(ic.repo, categories, c.QueryArray("vendor"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil {
		page = p
	}

	c.JSON(http.StatusOK, gin.H{
		"items": search.Page(items, page, ic.pageSize),
		"page":  page,
		"pages": search.NumPages(len(items), ic.pageSize),
		"total": len(items),
	})
}

// Detail handles GET /api/items/:id with the item's reviews, its average
// rating and, for logged-in accounts, wishlist membership.
func (ic *ItemsController) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	item, err := ic.repo.GetItemByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	reviews, err := services.ItemReviews(ic.repo, item.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	average, err := services.AverageRating(ic.repo, item.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"item":           item,
		"reviews":        reviews,
		"average_rating": average,
	}

	if ic.sessions != nil {
		if username := ic.sessions.Username(c.Request); username != "" {
			wishlisted, err := services.InWishlist(ic.repo, username, item.ID)
			if err == nil {
				resp["in_wishlist"] = wishlisted
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Categories handles GET /api/categories.
func (ic *ItemsController) Categories(c *gin.Context) {
	categories, err := ic.repo.GetAllCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Vendors handles GET /api/vendors.
func (ic *ItemsController) Vendors(c *gin.Context) {
	vendors, err := ic.repo.GetAllVendors()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}
