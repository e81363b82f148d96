package handler

import (
	"errors"
	"net/http"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/models"
	"novelhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// RegisterRoutes registers coin and transaction routes on an
// authenticated group
func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	coins := router.Group("/coins")
	{
		coins.POST("/purchase", h.Purchase)
		coins.GET("/balance", h.GetBalance)
	}

	router.POST("/chapters/:chapter_id/unlock", h.Unlock)
	router.GET("/transactions", h.ListTransactions)
}

// Purchase credits coins to the caller's balance
// POST /api/coins/purchase
func (h *LedgerHandler) Purchase(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.PurchaseCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.ledgerService.PurchaseCoins(c.Request.Context(), userID.(string), req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to purchase coins"})
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// Unlock spends coins for permanent access to a paid chapter
// POST /api/chapters/:chapter_id/unlock
func (h *LedgerHandler) Unlock(c *gin.Context) {
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

	var req dto.UnlockChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.ledgerService.UnlockChapter(c.Request.Context(), userID.(string), chapterID, req.CoinCost)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrChapterNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPriceMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyUnlocked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unlock chapter"})
		}
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// GetBalance returns the caller's coin balance
// GET /api/coins/balance
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch balance"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{CoinsBalance: balance})
}

// ListTransactions returns the caller's transaction history, newest
// first. Admins may pass user_id to inspect another account, or
// all=true for the whole ledger.
// GET /api/transactions?user_id=&all=&page=&page_size=
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	page, pageSize := parsePagination(c)

	isAdmin := c.GetString("role") == models.RoleAdmin

	if isAdmin && c.Query("all") == "true" {
		txns, err := h.ledgerService.GetAllTransactions(c.Request.Context(), page, pageSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
			return
		}
		c.JSON(http.StatusOK, txns)
		return
	}

	targetID := userID.(string)
	if requested := c.Query("user_id"); requested != "" && requested != targetID {
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot view another user's transactions"})
			return
		}
		targetID = requested
	}

	txns, err := h.ledgerService.GetTransactions(c.Request.Context(), targetID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, txns)
}
