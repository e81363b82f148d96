package service

import (
	"context"
	"errors"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/models"
	"novelhub/internal/http-api/repository"

	"gorm.io/gorm"
)

type ReviewService interface {
	// CreateReview appends the review and synchronously recomputes the
	// novel's average rating; the response reflects the new average.
	CreateReview(ctx context.Context, novelID int64, userID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetReviews(ctx context.Context, novelID int64) ([]dto.ReviewResponse, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	novelRepo  repository.NovelRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, novelRepo repository.NovelRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, novelRepo: novelRepo}
}

func (s *reviewService) CreateReview(ctx context.Context, novelID int64, userID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if _, err := s.novelRepo.GetByID(ctx, novelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}

	review := &models.Review{
		NovelID:    novelID,
		UserID:     userID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if err := s.reviewRepo.CreateAndRecalculate(ctx, review); err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) GetReviews(ctx context.Context, novelID int64) ([]dto.ReviewResponse, error) {
	if _, err := s.novelRepo.GetByID(ctx, novelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.GetByNovel(ctx, novelID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return responses, nil
}
