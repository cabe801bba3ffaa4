package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/repository"
)

// HealthController reports service liveness and basic catalog stats.
type HealthController struct {
	repo    repository.Repository
	version string
}

func NewHealthController(repo repository.Repository, version string) *HealthController {
	return &HealthController{repo: repo, version: version}
}

// Health handles GET /health.
func (hc *HealthController) Health(c *gin.Context) {
	count, err := hc.repo.CountItems()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": hc.version,
		"items":   count,
	})
}
