package repository

import (
	"context"

	"novelhub/internal/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	// CreateAndRecalculate appends the review and rewrites the novel's
	// average_rating as AVG(rating) over all its reviews, in one
	// database transaction.
	CreateAndRecalculate(ctx context.Context, review *models.Review) error
	GetByNovel(ctx context.Context, novelID int64) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateAndRecalculate(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var avg struct {
			Average float64
		}
		err := tx.Model(&models.Review{}).
			Select("COALESCE(AVG(rating), 0) as average").
			Where("novel_id = ?", review.NovelID).
			Scan(&avg).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.Novel{}).
			Where("id = ?", review.NovelID).
			Update("average_rating", avg.Average).Error
	})
}

func (r *reviewRepository) GetByNovel(ctx context.Context, novelID int64) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("novel_id = ?", novelID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
