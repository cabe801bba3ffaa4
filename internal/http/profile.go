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

// Default number of history lines shown on the profile page.
const defaultHistoryLimit = 10

// ProfileController serves the logged-in account's activity history.
type ProfileController struct {
	repo repository.Repository
}

func NewProfileController(repo repository.Repository) *ProfileController {
	return &ProfileController{repo: repo}
}

// History handles GET /api/profile/history?limit=N, returning the newest N
// entries in chronological order.
func (pc *ProfileController) History(c *gin.Context) {
	limit := defaultHistoryLimit
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	username := c.GetString(auth.ContextKeyUsername)
	history, err := services.RecentHistory(pc.repo, username, limit)
	switch {
	case errors.Is(err, services.ErrUnknownAccount):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": username, "history": history})
}
