package handler

import (
	"errors"
	"net/http"
	"strconv"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/middleware"
	"novelhub/internal/http-api/repository"
	"novelhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

const defaultSearchLimit = 20

type NovelHandler struct {
	novelService service.NovelService
}

func NewNovelHandler(novelService service.NovelService) *NovelHandler {
	return &NovelHandler{novelService: novelService}
}

// RegisterRoutes registers catalog routes. Reads are public; writes
// require an authenticated publisher.
func (h *NovelHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	novels := public.Group("/novels")
	{
		novels.GET("", h.List)
		novels.GET("/search", h.Search)
		novels.GET("/:novel_id", h.Get)
	}

	writes := authed.Group("/novels")
	{
		writes.POST("", middleware.RequirePublisher(), h.Create)
		writes.PATCH("/:novel_id", middleware.RequirePublisher(), h.Update)
	}
}

// Create starts a new novel as a draft
// POST /api/novels
func (h *NovelHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	novel, err := h.novelService.CreateNovel(c.Request.Context(), userID.(string), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAccountInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create novel"})
		}
		return
	}

	c.JSON(http.StatusCreated, novel)
}

// Get returns a single novel
// GET /api/novels/:novel_id
func (h *NovelHandler) Get(c *gin.Context) {
	novelID, ok := parseIDParam(c, "novel_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid novel ID"})
		return
	}

	novel, err := h.novelService.GetNovel(c.Request.Context(), novelID)
	if err != nil {
		if errors.Is(err, service.ErrNovelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch novel"})
		return
	}

	c.JSON(http.StatusOK, novel)
}

// Update patches a novel's fields
// PATCH /api/novels/:novel_id
func (h *NovelHandler) Update(c *gin.Context) {
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

	var req dto.UpdateNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	novel, err := h.novelService.UpdateNovel(c.Request.Context(), novelID, userID.(string), c.GetString("role"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNovelNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update novel"})
		}
		return
	}

	c.JSON(http.StatusOK, novel)
}

// List returns novels filtered and sorted by query params
// GET /api/novels?genre=&status=&featured=&author_id=&sort_by=&sort_order=&page=&page_size=
func (h *NovelHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	var filter repository.NovelFilter
	if v := c.Query("genre"); v != "" {
		filter.Genre = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}
	if v := c.Query("author_id"); v != "" {
		filter.AuthorID = &v
	}

	sortBy := c.DefaultQuery("sort_by", "updated_at")
	sortOrder := c.DefaultQuery("sort_order", "desc")

	novels, err := h.novelService.ListNovels(c.Request.Context(), filter, sortBy, sortOrder, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list novels"})
		return
	}

	c.JSON(http.StatusOK, novels)
}

// Search matches novels by title, description, genre, author or tags
// GET /api/novels/search?q=&limit=
func (h *NovelHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search query"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSearchLimit)))
	if limit < 1 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	novels, err := h.novelService.SearchNovels(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": novels})
}
