package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository"
	"github.com/mrlokans/catalog/internal/services"
)

// ReviewsController handles review submission.
type ReviewsController struct {
	repo repository.Repository
}

func NewReviewsController(repo repository.Repository) *ReviewsController {
	return &ReviewsController{repo: repo}
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// Create handles POST /api/items/:id/reviews for the logged-in account.
func (rc *ReviewsController) Create(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := c.GetString(auth.ContextKeyUsername)
	review, err := services.WriteReview(rc.repo, username, uint(id), req.Rating, req.Comment)
	switch {
	case errors.Is(err, services.ErrNoSuchItem):
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	case errors.Is(err, services.ErrUnknownAccount):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
		return
	case errors.Is(err, entities.ErrRatingOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}
