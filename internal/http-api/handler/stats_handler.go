package handler

import (
	"errors"
	"net/http"

	"novelhub/internal/http-api/middleware"
	"novelhub/internal/http-api/models"
	"novelhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// RegisterRoutes registers stats routes on an authenticated group
func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/admin/dashboard", middleware.RequireAdmin(), h.Dashboard)
	router.GET("/authors/:author_id/stats", h.AuthorStats)
}

// Dashboard returns the platform snapshot
// GET /api/admin/dashboard
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.DashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute dashboard stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// AuthorStats returns one author's output and earnings. Authors may
// only see their own numbers; admins may see anyone's.
// GET /api/authors/:author_id/stats
func (h *StatsHandler) AuthorStats(c *gin.Context) {
	authorID := c.Param("author_id")
	if authorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author ID"})
		return
	}

	callerID := c.GetString("userID")
	if callerID != authorID && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot view another author's stats"})
		return
	}

	stats, err := h.statsService.AuthorStats(c.Request.Context(), authorID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute author stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
