package service

import (
	"context"
	"errors"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrProgressNotFound = errors.New("no reading progress for novel")

type ProgressService interface {
	// UpdateProgress records the last chapter a user read; the row is
	// created on first read.
	UpdateProgress(ctx context.Context, userID string, novelID int64, chapterID int64) (*dto.ProgressResponse, error)
	GetProgress(ctx context.Context, userID string, novelID int64) (*dto.ProgressResponse, error)
	GetLibrary(ctx context.Context, userID string) ([]dto.ProgressResponse, error)
	// ToggleFavorite flips is_favorite and returns the new state. It
	// never creates a row: a novel with no reading history cannot be
	// favorited.
	ToggleFavorite(ctx context.Context, userID string, novelID int64) (*dto.ProgressResponse, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	novelRepo    repository.NovelRepository
	chapterRepo  repository.ChapterRepository
}

func NewProgressService(
	progressRepo repository.ProgressRepository,
	novelRepo repository.NovelRepository,
	chapterRepo repository.ChapterRepository,
) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		novelRepo:    novelRepo,
		chapterRepo:  chapterRepo,
	}
}

func (s *progressService) UpdateProgress(ctx context.Context, userID string, novelID int64, chapterID int64) (*dto.ProgressResponse, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	if chapter.NovelID != novelID {
		return nil, ErrChapterNotFound
	}

	progress, err := s.progressRepo.Upsert(ctx, userID, novelID, chapterID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToProgressResponse(progress), nil
}

func (s *progressService) GetProgress(ctx context.Context, userID string, novelID int64) (*dto.ProgressResponse, error) {
	progress, err := s.progressRepo.Get(ctx, userID, novelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return dto.FromModelToProgressResponse(progress), nil
}

func (s *progressService) GetLibrary(ctx context.Context, userID string) ([]dto.ProgressResponse, error) {
	entries, err := s.progressRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ProgressResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *dto.FromModelToProgressResponse(&entries[i]))
	}
	return responses, nil
}

func (s *progressService) ToggleFavorite(ctx context.Context, userID string, novelID int64) (*dto.ProgressResponse, error) {
	current, err := s.progressRepo.Get(ctx, userID, novelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}

	updated, err := s.progressRepo.SetFavorite(ctx, userID, novelID, !current.IsFavorite)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return dto.FromModelToProgressResponse(updated), nil
}
