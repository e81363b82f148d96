package repository

import (
	"context"
	"fmt"
	"strings"

	"novelhub/internal/http-api/models"

	"gorm.io/gorm"
)

// sortColumns is the allow-list for List ordering; anything else falls
// back to updated_at so callers can never inject arbitrary columns.
var sortColumns = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"total_views":    true,
	"average_rating": true,
}

// NovelFilter narrows List results; nil fields are ignored.
type NovelFilter struct {
	Genre    *string
	Status   *string
	Featured *bool
	AuthorID *string
}

type NovelRepository interface {
	Create(ctx context.Context, novel *models.Novel) error
	GetByID(ctx context.Context, id int64) (*models.Novel, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (*models.Novel, error)
	List(ctx context.Context, filter NovelFilter, sortBy, sortOrder string, page, pageSize int) ([]models.Novel, int64, error)
	Search(ctx context.Context, query string, limit int) ([]models.Novel, error)
	GetByAuthor(ctx context.Context, authorID string) ([]models.Novel, error)
	TopByViews(ctx context.Context, limit int) ([]models.Novel, error)
	Count(ctx context.Context) (int64, error)
}

type novelRepository struct {
	db *gorm.DB
}

func NewNovelRepository(db *gorm.DB) NovelRepository {
	return &novelRepository{db: db}
}

func (r *novelRepository) Create(ctx context.Context, novel *models.Novel) error {
	if err := r.db.WithContext(ctx).Create(novel).Error; err != nil {
		return fmt.Errorf("create novel: %w", err)
	}
	return nil
}

func (r *novelRepository) GetByID(ctx context.Context, id int64) (*models.Novel, error) {
	var n models.Novel
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *novelRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*models.Novel, error) {
	res := r.db.WithContext(ctx).Model(&models.Novel{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update novel: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *novelRepository) List(ctx context.Context, filter NovelFilter, sortBy, sortOrder string, page, pageSize int) ([]models.Novel, int64, error) {
	var list []models.Novel
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Novel{})
	if filter.Genre != nil {
		q = q.Where("genre = ?", *filter.Genre)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Featured != nil {
		q = q.Where("is_featured = ?", *filter.Featured)
	}
	if filter.AuthorID != nil {
		q = q.Where("author_id = ?", *filter.AuthorID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if !sortColumns[sortBy] {
		sortBy = "updated_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	offset := (page - 1) * pageSize
	err := q.Order(sortBy + " " + sortOrder).
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Search performs case-insensitive partial match on title, description,
// genre, author username and the tags array.
func (r *novelRepository) Search(ctx context.Context, query string, limit int) ([]models.Novel, error) {
	var list []models.Novel
	if strings.TrimSpace(query) == "" {
		return list, nil
	}
	p := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = novels.author_id").
		Where("novels.title ILIKE ? OR novels.description ILIKE ? OR novels.genre ILIKE ? OR users.username ILIKE ? OR novels.tags::text ILIKE ?",
			p, p, p, p, p).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("search novels: %w", err)
	}
	return list, nil
}

func (r *novelRepository) GetByAuthor(ctx context.Context, authorID string) ([]models.Novel, error) {
	var list []models.Novel
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *novelRepository) TopByViews(ctx context.Context, limit int) ([]models.Novel, error) {
	var list []models.Novel
	err := r.db.WithContext(ctx).
		Order("total_views DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *novelRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Novel{}).Count(&count).Error
	return count, err
}
