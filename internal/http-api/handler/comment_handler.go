package handler

import (
	"errors"
	"net/http"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/middleware"
	"novelhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes registers comment routes
func (h *CommentHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/chapters/:chapter_id/comments", h.List)
	authed.POST("/chapters/:chapter_id/comments", h.Create)
	authed.PATCH("/comments/:comment_id/moderate", middleware.RequireAdmin(), h.Moderate)
}

// Create attaches a comment or a one-level reply to a chapter
// POST /api/chapters/:chapter_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
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

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), chapterID, userID.(string), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChapterNotFound), errors.Is(err, service.ErrCommentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNestedReply), errors.Is(err, service.ErrParentMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		}
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// List returns a chapter's comments in posting order
// GET /api/chapters/:chapter_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	chapterID, ok := parseIDParam(c, "chapter_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter ID"})
		return
	}

	comments, err := h.commentService.GetComments(c.Request.Context(), chapterID)
	if err != nil {
		if errors.Is(err, service.ErrChapterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments})
}

// Moderate sets a comment's moderation flag
// PATCH /api/comments/:comment_id/moderate
func (h *CommentHandler) Moderate(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment ID"})
		return
	}

	var req dto.ModerateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.ModerateComment(c.Request.Context(), commentID, req.IsModerated)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to moderate comment"})
		return
	}

	c.JSON(http.StatusOK, comment)
}
