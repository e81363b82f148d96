package handler

import (
	"errors"
	"net/http"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review routes
func (h *ReviewHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/novels/:novel_id/reviews", h.List)
	authed.POST("/novels/:novel_id/reviews", h.Create)
}

// Create rates a novel and refreshes its average rating
// POST /api/novels/:novel_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
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

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), novelID, userID.(string), &req)
	if err != nil {
		if errors.Is(err, service.ErrNovelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// List returns a novel's reviews, newest first
// GET /api/novels/:novel_id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	novelID, ok := parseIDParam(c, "novel_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid novel ID"})
		return
	}

	reviews, err := h.reviewService.GetReviews(c.Request.Context(), novelID)
	if err != nil {
		if errors.Is(err, service.ErrNovelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reviews})
}
