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
	ErrNovelNotFound    = errors.New("novel not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAccountInactive  = errors.New("account is deactivated")
)

type NovelService interface {
	// CreateNovel requires an active account with the author or admin
	// role. New novels start as drafts.
	CreateNovel(ctx context.Context, authorID string, req *dto.CreateNovelRequest) (*dto.NovelResponse, error)
	GetNovel(ctx context.Context, id int64) (*dto.NovelResponse, error)
	// UpdateNovel applies the non-nil fields of req. Only the owning
	// author or an admin may write; is_featured is admin-only.
	UpdateNovel(ctx context.Context, id int64, callerID, callerRole string, req *dto.UpdateNovelRequest) (*dto.NovelResponse, error)
	ListNovels(ctx context.Context, filter repository.NovelFilter, sortBy, sortOrder string, page, pageSize int) (*dto.PaginatedNovelResponse, error)
	SearchNovels(ctx context.Context, query string, limit int) ([]dto.NovelResponse, error)
}

type novelService struct {
	novelRepo repository.NovelRepository
	userRepo  repository.UserRepository
}

func NewNovelService(novelRepo repository.NovelRepository, userRepo repository.UserRepository) NovelService {
	return &novelService{novelRepo: novelRepo, userRepo: userRepo}
}

func (s *novelService) CreateNovel(ctx context.Context, authorID string, req *dto.CreateNovelRequest) (*dto.NovelResponse, error) {
	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !author.CanPublish() {
		return nil, ErrPermissionDenied
	}
	if !author.IsActive {
		return nil, ErrAccountInactive
	}

	novel := &models.Novel{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		AuthorID:    authorID,
		Status:      models.NovelStatusDraft,
		Genre:       req.Genre,
		Tags:        models.TagList(req.Tags),
	}
	if err := s.novelRepo.Create(ctx, novel); err != nil {
		return nil, err
	}
	return dto.FromModelToNovelResponse(novel), nil
}

func (s *novelService) GetNovel(ctx context.Context, id int64) (*dto.NovelResponse, error) {
	novel, err := s.novelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}
	return dto.FromModelToNovelResponse(novel), nil
}

func (s *novelService) UpdateNovel(ctx context.Context, id int64, callerID, callerRole string, req *dto.UpdateNovelRequest) (*dto.NovelResponse, error) {
	novel, err := s.novelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}
	isAdmin := callerRole == models.RoleAdmin
	if novel.AuthorID != callerID && !isAdmin {
		return nil, ErrPermissionDenied
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.CoverURL != nil {
		fields["cover_url"] = *req.CoverURL
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Genre != nil {
		fields["genre"] = *req.Genre
	}
	if req.Tags != nil {
		fields["tags"] = models.TagList(*req.Tags)
	}
	if req.IsFeatured != nil {
		if !isAdmin {
			return nil, ErrPermissionDenied
		}
		fields["is_featured"] = *req.IsFeatured
	}
	if len(fields) == 0 {
		return dto.FromModelToNovelResponse(novel), nil
	}

	updated, err := s.novelRepo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToNovelResponse(updated), nil
}

func (s *novelService) ListNovels(ctx context.Context, filter repository.NovelFilter, sortBy, sortOrder string, page, pageSize int) (*dto.PaginatedNovelResponse, error) {
	novels, total, err := s.novelRepo.List(ctx, filter, sortBy, sortOrder, page, pageSize)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginatedNovelResponse(toNovelResponses(novels), int(total), page, pageSize), nil
}

func (s *novelService) SearchNovels(ctx context.Context, query string, limit int) ([]dto.NovelResponse, error) {
	novels, err := s.novelRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toNovelResponses(novels), nil
}

func toNovelResponses(novels []models.Novel) []dto.NovelResponse {
	responses := make([]dto.NovelResponse, 0, len(novels))
	for i := range novels {
		responses = append(responses, *dto.FromModelToNovelResponse(&novels[i]))
	}
	return responses
}
