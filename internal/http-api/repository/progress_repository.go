package repository

import (
	"context"
	"time"

	"novelhub/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	Get(ctx context.Context, userID string, novelID int64) (*models.ReadingProgress, error)
	GetByUser(ctx context.Context, userID string) ([]models.ReadingProgress, error)
	// Upsert creates the (user, novel) row on first read and refreshes
	// last_chapter_id / last_read_at afterwards.
	Upsert(ctx context.Context, userID string, novelID, chapterID int64) (*models.ReadingProgress, error)
	SetFavorite(ctx context.Context, userID string, novelID int64, favorite bool) (*models.ReadingProgress, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID string, novelID int64) (*models.ReadingProgress, error) {
	var progress models.ReadingProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND novel_id = ?", userID, novelID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) GetByUser(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	var list []models.ReadingProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_read_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *progressRepository) Upsert(ctx context.Context, userID string, novelID, chapterID int64) (*models.ReadingProgress, error) {
	now := time.Now()
	progress := models.ReadingProgress{
		UserID:        userID,
		NovelID:       novelID,
		LastChapterID: chapterID,
		LastReadAt:    now,
	}
	// Single INSERT ... ON CONFLICT so two concurrent first reads of
	// the same novel cannot race into the (user_id, novel_id) unique
	// constraint.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "novel_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"last_chapter_id": chapterID,
				"last_read_at":    now,
				"updated_at":      now,
			}),
		}).
		Create(&progress).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, novelID)
}

func (r *progressRepository) SetFavorite(ctx context.Context, userID string, novelID int64, favorite bool) (*models.ReadingProgress, error) {
	res := r.db.WithContext(ctx).Model(&models.ReadingProgress{}).
		Where("user_id = ? AND novel_id = ?", userID, novelID).
		Update("is_favorite", favorite)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Get(ctx, userID, novelID)
}
