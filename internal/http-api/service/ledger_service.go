package service

import (
	"context"
	"errors"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/models"
	"novelhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrChapterNotFound   = errors.New("chapter not found")
	ErrInsufficientFunds = errors.New("insufficient coins")
	ErrPriceMismatch     = errors.New("chapter price has changed")
	ErrAlreadyUnlocked   = errors.New("chapter already unlocked")
)

// LedgerService records every balance-affecting event. Balances are only
// ever mutated through the ledger repository, which pairs each mutation
// with an appended transaction row.
type LedgerService interface {
	PurchaseCoins(ctx context.Context, userID string, amount float64, description string) (*dto.TransactionResponse, error)
	// UnlockChapter spends coins for permanent access to a paid chapter.
	// quotedCost is the price the client saw; it must match the stored
	// price so a stale quote is rejected instead of silently re-priced.
	UnlockChapter(ctx context.Context, userID string, chapterID int64, quotedCost float64) (*dto.TransactionResponse, error)
	GetBalance(ctx context.Context, userID string) (float64, error)
	GetTransactions(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedTransactionResponse, error)
	GetAllTransactions(ctx context.Context, page, pageSize int) (*dto.PaginatedTransactionResponse, error)
	HasUnlocked(ctx context.Context, userID string, chapterID int64) (bool, error)
}

type ledgerService struct {
	ledgerRepo  repository.LedgerRepository
	userRepo    repository.UserRepository
	chapterRepo repository.ChapterRepository
	novelRepo   repository.NovelRepository
	authorShare float64
}

func NewLedgerService(
	ledgerRepo repository.LedgerRepository,
	userRepo repository.UserRepository,
	chapterRepo repository.ChapterRepository,
	novelRepo repository.NovelRepository,
	authorShare float64,
) LedgerService {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		userRepo:    userRepo,
		chapterRepo: chapterRepo,
		novelRepo:   novelRepo,
		authorShare: authorShare,
	}
}

// PurchaseCoins credits the balance and appends a purchase_coins row.
// There is no upper bound on amount or balance.
func (s *ledgerService) PurchaseCoins(ctx context.Context, userID string, amount float64, description string) (*dto.TransactionResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	txn, err := s.ledgerRepo.Purchase(ctx, userID, amount, description)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTransactionResponse(txn), nil
}

func (s *ledgerService) UnlockChapter(ctx context.Context, userID string, chapterID int64, quotedCost float64) (*dto.TransactionResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	// The client's quoted price is only a consistency check; the debit
	// always uses the stored price.
	if quotedCost != chapter.CoinCost {
		return nil, ErrPriceMismatch
	}

	// Fast path only; the unique unlock index inside the repository
	// transaction is what actually prevents a double charge when two
	// unlocks race past this read.
	unlocked, err := s.ledgerRepo.HasUnlocked(ctx, userID, chapterID)
	if err != nil {
		return nil, err
	}
	if unlocked {
		return nil, ErrAlreadyUnlocked
	}

	novel, err := s.novelRepo.GetByID(ctx, chapter.NovelID)
	if err != nil {
		return nil, err
	}

	txn, err := s.ledgerRepo.Unlock(ctx, userID, chapter, novel.AuthorID, s.authorShare)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, ErrInsufficientFunds
		}
		if errors.Is(err, repository.ErrAlreadyUnlocked) {
			return nil, ErrAlreadyUnlocked
		}
		return nil, err
	}
	return dto.FromModelToTransactionResponse(txn), nil
}

func (s *ledgerService) GetBalance(ctx context.Context, userID string) (float64, error) {
	balance, err := s.ledgerRepo.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (s *ledgerService) GetTransactions(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedTransactionResponse, error) {
	list, total, err := s.ledgerRepo.GetByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return toPaginatedTransactions(list, total, page, pageSize), nil
}

func (s *ledgerService) GetAllTransactions(ctx context.Context, page, pageSize int) (*dto.PaginatedTransactionResponse, error) {
	list, total, err := s.ledgerRepo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return toPaginatedTransactions(list, total, page, pageSize), nil
}

func (s *ledgerService) HasUnlocked(ctx context.Context, userID string, chapterID int64) (bool, error) {
	return s.ledgerRepo.HasUnlocked(ctx, userID, chapterID)
}

func toPaginatedTransactions(list []models.Transaction, total int64, page, pageSize int) *dto.PaginatedTransactionResponse {
	responses := make([]dto.TransactionResponse, 0, len(list))
	for _, txn := range list {
		responses = append(responses, *dto.FromModelToTransactionResponse(&txn))
	}
	return dto.NewPaginatedTransactionResponse(responses, int(total), page, pageSize)
}
