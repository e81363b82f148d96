package handler

import (
	"errors"
	"net/http"
	"strconv"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// RegisterRoutes registers reading-progress routes on an authenticated
// group
func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.PUT("/progress", h.Update)
	router.GET("/progress", h.Get)
	router.POST("/novels/:novel_id/favorite", h.ToggleFavorite)
}

// Update records the last chapter the caller read in a novel
// PUT /api/progress
func (h *ProgressHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	progress, err := h.progressService.UpdateProgress(c.Request.Context(), userID.(string), req.NovelID, req.LastChapterID)
	if err != nil {
		if errors.Is(err, service.ErrChapterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update progress"})
		return
	}

	c.JSON(http.StatusOK, progress)
}

// Get returns the caller's reading history, most recent first; pass
// novel_id to fetch a single novel's progress
// GET /api/progress?novel_id=
func (h *ProgressHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if v := c.Query("novel_id"); v != "" {
		novelID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || novelID < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid novel ID"})
			return
		}

		progress, err := h.progressService.GetProgress(c.Request.Context(), userID.(string), novelID)
		if err != nil {
			if errors.Is(err, service.ErrProgressNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch progress"})
			return
		}
		c.JSON(http.StatusOK, progress)
		return
	}

	library, err := h.progressService.GetLibrary(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": library})
}

// ToggleFavorite flips the favorite flag on a novel the caller has read
// POST /api/novels/:novel_id/favorite
func (h *ProgressHandler) ToggleFavorite(c *gin.Context) {
	novelID, ok := parseIDParam(c, "novel_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid novel ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	progress, err := h.progressService.ToggleFavorite(c.Request.Context(), userID.(string), novelID)
	if err != nil {
		if errors.Is(err, service.ErrProgressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle favorite"})
		return
	}

	c.JSON(http.StatusOK, progress)
}
