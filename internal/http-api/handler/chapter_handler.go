package handler

import (
	"errors"
	"net/http"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/middleware"
	"novelhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	chapterService service.ChapterService
}

func NewChapterHandler(chapterService service.ChapterService) *ChapterHandler {
	return &ChapterHandler{chapterService: chapterService}
}

// RegisterRoutes registers chapter routes. The content endpoint sits on
// the optional-auth group: anonymous callers can read free chapters,
// paid chapters need an identified, entitled caller.
func (h *ChapterHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/novels/:novel_id/chapters", h.ListByNovel)
	public.GET("/chapters/:chapter_id", h.Get)
	public.GET("/chapters/:chapter_id/content", h.ReadContent)

	authed.POST("/novels/:novel_id/chapters", middleware.RequirePublisher(), h.Create)
	authed.PATCH("/chapters/:chapter_id", middleware.RequirePublisher(), h.Update)
}

// Create appends a chapter; the number is assigned server-side
// POST /api/novels/:novel_id/chapters
func (h *ChapterHandler) Create(c *gin.Context) {
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

	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.chapterService.CreateChapter(c.Request.Context(), novelID, userID.(string), c.GetString("role"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNovelNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create chapter"})
		}
		return
	}

	c.JSON(http.StatusCreated, chapter)
}

// Update patches a chapter; editing content recomputes its word count
// PATCH /api/chapters/:chapter_id
func (h *ChapterHandler) Update(c *gin.Context) {
	chapterID, ok := parseIDParam(c, "chapter_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.chapterService.UpdateChapter(c.Request.Context(), chapterID, userID.(string), c.GetString("role"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChapterNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update chapter"})
		}
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// ListByNovel returns a novel's chapters without their content
// GET /api/novels/:novel_id/chapters
func (h *ChapterHandler) ListByNovel(c *gin.Context) {
	novelID, ok := parseIDParam(c, "novel_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid novel ID"})
		return
	}

	page, pageSize := parsePagination(c)

	chapters, err := h.chapterService.GetChapters(c.Request.Context(), novelID, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrNovelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chapters"})
		return
	}

	c.JSON(http.StatusOK, chapters)
}

// Get returns chapter metadata
// GET /api/chapters/:chapter_id
func (h *ChapterHandler) Get(c *gin.Context) {
	chapterID, ok := parseIDParam(c, "chapter_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter ID"})
		return
	}

	chapter, err := h.chapterService.GetChapter(c.Request.Context(), chapterID)
	if err != nil {
		if errors.Is(err, service.ErrChapterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch chapter"})
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// ReadContent returns the chapter body when the caller is entitled
// GET /api/chapters/:chapter_id/content
func (h *ChapterHandler) ReadContent(c *gin.Context) {
	chapterID, ok := parseIDParam(c, "chapter_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter ID"})
		return
	}

	content, err := h.chapterService.ReadChapter(c.Request.Context(), chapterID, c.GetString("userID"), c.GetString("role"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChapterNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrChapterNotUnlocked):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read chapter"})
		}
		return
	}

	c.JSON(http.StatusOK, content)
}
