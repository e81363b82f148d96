package service

import (
	"context"
	"errors"
	"time"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/models"
	"novelhub/internal/http-api/repository"

	"gorm.io/gorm"
)

const (
	popularNovelsLimit  = 10
	recentActivityLimit = 10
)

type StatsService interface {
	// DashboardStats is the admin snapshot: entity counts, revenue from
	// coin purchases, today's transaction activity, the ten most viewed
	// novels and the ten latest transactions.
	DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	// AuthorStats summarizes one author: novel count, summed views,
	// lifetime earnings and the latest earning transactions.
	AuthorStats(ctx context.Context, authorID string) (*dto.AuthorStatsResponse, error)
}

type statsService struct {
	userRepo    repository.UserRepository
	novelRepo   repository.NovelRepository
	chapterRepo repository.ChapterRepository
	ledgerRepo  repository.LedgerRepository
}

func NewStatsService(
	userRepo repository.UserRepository,
	novelRepo repository.NovelRepository,
	chapterRepo repository.ChapterRepository,
	ledgerRepo repository.LedgerRepository,
) StatsService {
	return &statsService{
		userRepo:    userRepo,
		novelRepo:   novelRepo,
		chapterRepo: chapterRepo,
		ledgerRepo:  ledgerRepo,
	}
}

func (s *statsService) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalNovels, err := s.novelRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalChapters, err := s.chapterRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.ledgerRepo.SumByType(ctx, models.TxPurchaseCoins)
	if err != nil {
		return nil, err
	}

	// Activity counts from local midnight, not a rolling 24h window.
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	activeToday, err := s.ledgerRepo.CountSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	newUsersToday, err := s.userRepo.CountCreatedSince(ctx, midnight)
	if err != nil {
		return nil, err
	}

	popular, err := s.novelRepo.TopByViews(ctx, popularNovelsLimit)
	if err != nil {
		return nil, err
	}
	recent, err := s.ledgerRepo.GetRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStatsResponse{
		TotalUsers:         totalUsers,
		TotalNovels:        totalNovels,
		TotalChapters:      totalChapters,
		TotalRevenue:       revenue,
		ActiveUsersToday:   activeToday,
		NewUsersToday:      newUsersToday,
		PopularNovels:      toNovelResponses(popular),
		RecentTransactions: toTransactionResponses(recent),
	}, nil
}

func (s *statsService) AuthorStats(ctx context.Context, authorID string) (*dto.AuthorStatsResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	novels, err := s.novelRepo.GetByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	var totalViews int64
	for i := range novels {
		totalViews += int64(novels[i].TotalViews)
	}

	earnings, err := s.ledgerRepo.SumByUserAndType(ctx, authorID, models.TxAuthorEarning)
	if err != nil {
		return nil, err
	}
	recent, err := s.ledgerRepo.GetRecentByUserAndType(ctx, authorID, models.TxAuthorEarning, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	return &dto.AuthorStatsResponse{
		TotalNovels:    int64(len(novels)),
		TotalViews:     totalViews,
		TotalEarnings:  earnings,
		Novels:         toNovelResponses(novels),
		RecentEarnings: toTransactionResponses(recent),
	}, nil
}

func toTransactionResponses(list []models.Transaction) []dto.TransactionResponse {
	responses := make([]dto.TransactionResponse, 0, len(list))
	for i := range list {
		responses = append(responses, *dto.FromModelToTransactionResponse(&list[i]))
	}
	return responses
}
