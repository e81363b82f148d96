package dto

import (
	"time"

	"novelhub/internal/http-api/models"
)

type PurchaseCoinsRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required"`
}

// UnlockChapterRequest carries the price the client saw when it offered
// the unlock; the server verifies it against the stored price.
type UnlockChapterRequest struct {
	CoinCost float64 `json:"coin_cost" binding:"gte=0"`
}

type TransactionResponse struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	NovelID     *int64    `json:"novel_id,omitempty"`
	ChapterID   *int64    `json:"chapter_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromModelToTransactionResponse converts a Transaction model to its response DTO
func FromModelToTransactionResponse(txn *models.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          txn.ID,
		UserID:      txn.UserID,
		Type:        txn.Type,
		Amount:      txn.Amount,
		Description: txn.Description,
		NovelID:     txn.NovelID,
		ChapterID:   txn.ChapterID,
		CreatedAt:   txn.CreatedAt,
	}
}

type BalanceResponse struct {
	CoinsBalance float64 `json:"coins_balance"`
}

type PaginatedTransactionResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"total_pages"`
}

func NewPaginatedTransactionResponse(data []TransactionResponse, total, page, pageSize int) *PaginatedTransactionResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedTransactionResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
