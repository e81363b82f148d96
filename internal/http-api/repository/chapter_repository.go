package repository

import (
	"context"
	"fmt"

	"novelhub/internal/http-api/models"

	"gorm.io/gorm"
)

type ChapterRepository interface {
	// CreateNext assigns chapter_number = max(existing)+1 and bumps the
	// novel's total_chapters, all in one database transaction. The unique
	// (novel_id, chapter_number) index turns a concurrent duplicate into
	// a constraint violation rather than silent corruption.
	CreateNext(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id int64) (*models.Chapter, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (*models.Chapter, error)
	GetByNovel(ctx context.Context, novelID int64, page, pageSize int) ([]models.Chapter, int64, error)
	// RecordView bumps the chapter's view counter and the parent novel's
	// total_views together.
	RecordView(ctx context.Context, chapter *models.Chapter) error
	Count(ctx context.Context) (int64, error)
}

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) CreateNext(ctx context.Context, chapter *models.Chapter) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next struct {
			Number int
		}
		err := tx.Model(&models.Chapter{}).
			Select("COALESCE(MAX(chapter_number), 0) + 1 as number").
			Where("novel_id = ?", chapter.NovelID).
			Scan(&next).Error
		if err != nil {
			return err
		}
		chapter.ChapterNumber = next.Number

		if err := tx.Create(chapter).Error; err != nil {
			return err
		}

		return tx.Model(&models.Novel{}).
			Where("id = ?", chapter.NovelID).
			Update("total_chapters", gorm.Expr("total_chapters + 1")).Error
	})
	if err != nil {
		return fmt.Errorf("create chapter: %w", err)
	}
	return nil
}

func (r *chapterRepository) GetByID(ctx context.Context, id int64) (*models.Chapter, error) {
	var c models.Chapter
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *chapterRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*models.Chapter, error) {
	res := r.db.WithContext(ctx).Model(&models.Chapter{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update chapter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *chapterRepository) GetByNovel(ctx context.Context, novelID int64, page, pageSize int) ([]models.Chapter, int64, error) {
	var list []models.Chapter
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Chapter{}).Where("novel_id = ?", novelID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("novel_id = ?", novelID).
		Order("chapter_number ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *chapterRepository) RecordView(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Chapter{}).
			Where("id = ?", chapter.ID).
			Update("views", gorm.Expr("views + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.Novel{}).
			Where("id = ?", chapter.NovelID).
			Update("total_views", gorm.Expr("total_views + 1")).Error
	})
}

func (r *chapterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Chapter{}).Count(&count).Error
	return count, err
}
