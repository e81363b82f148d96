package service

import (
	"context"
	"errors"
	"strings"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/models"
	"novelhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrChapterNotUnlocked = errors.New("chapter requires unlock")

type ChapterService interface {
	// CreateChapter appends a chapter to the novel; the chapter number
	// is assigned server-side, never by the caller.
	CreateChapter(ctx context.Context, novelID int64, callerID, callerRole string, req *dto.CreateChapterRequest) (*dto.ChapterResponse, error)
	UpdateChapter(ctx context.Context, chapterID int64, callerID, callerRole string, req *dto.UpdateChapterRequest) (*dto.ChapterResponse, error)
	GetChapters(ctx context.Context, novelID int64, page, pageSize int) (*dto.PaginatedChapterResponse, error)
	GetChapter(ctx context.Context, chapterID int64) (*dto.ChapterResponse, error)
	// ReadChapter returns the chapter body only when the caller is
	// entitled: the chapter is free, the caller owns the novel or is an
	// admin, or the caller has unlocked it. A successful read counts a
	// view and both view counters move together.
	ReadChapter(ctx context.Context, chapterID int64, callerID, callerRole string) (*dto.ChapterContentResponse, error)
}

type chapterService struct {
	chapterRepo repository.ChapterRepository
	novelRepo   repository.NovelRepository
	ledgerRepo  repository.LedgerRepository
}

func NewChapterService(
	chapterRepo repository.ChapterRepository,
	novelRepo repository.NovelRepository,
	ledgerRepo repository.LedgerRepository,
) ChapterService {
	return &chapterService{
		chapterRepo: chapterRepo,
		novelRepo:   novelRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// countWords counts whitespace-separated tokens. Create and update use
// the same rule so word_count never drifts from content.
func countWords(content string) int {
	return len(strings.Fields(content))
}

func (s *chapterService) CreateChapter(ctx context.Context, novelID int64, callerID, callerRole string, req *dto.CreateChapterRequest) (*dto.ChapterResponse, error) {
	novel, err := s.novelRepo.GetByID(ctx, novelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}
	if novel.AuthorID != callerID && callerRole != models.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	isFree := req.CoinCost == 0
	if req.IsFree != nil {
		isFree = *req.IsFree
	}

	chapter := &models.Chapter{
		NovelID:   novelID,
		Title:     req.Title,
		Content:   req.Content,
		Status:    models.ChapterStatusDraft,
		CoinCost:  req.CoinCost,
		WordCount: countWords(req.Content),
		IsFree:    isFree,
	}
	if err := s.chapterRepo.CreateNext(ctx, chapter); err != nil {
		return nil, err
	}
	return dto.FromModelToChapterResponse(chapter), nil
}

func (s *chapterService) UpdateChapter(ctx context.Context, chapterID int64, callerID, callerRole string, req *dto.UpdateChapterRequest) (*dto.ChapterResponse, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	novel, err := s.novelRepo.GetByID(ctx, chapter.NovelID)
	if err != nil {
		return nil, err
	}
	if novel.AuthorID != callerID && callerRole != models.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
		fields["word_count"] = countWords(*req.Content)
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.CoinCost != nil {
		fields["coin_cost"] = *req.CoinCost
	}
	if req.IsFree != nil {
		fields["is_free"] = *req.IsFree
	}
	if len(fields) == 0 {
		return dto.FromModelToChapterResponse(chapter), nil
	}

	updated, err := s.chapterRepo.UpdateFields(ctx, chapterID, fields)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToChapterResponse(updated), nil
}

func (s *chapterService) GetChapters(ctx context.Context, novelID int64, page, pageSize int) (*dto.PaginatedChapterResponse, error) {
	if _, err := s.novelRepo.GetByID(ctx, novelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}

	chapters, total, err := s.chapterRepo.GetByNovel(ctx, novelID, page, pageSize)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ChapterResponse, 0, len(chapters))
	for i := range chapters {
		responses = append(responses, *dto.FromModelToChapterResponse(&chapters[i]))
	}
	return dto.NewPaginatedChapterResponse(responses, int(total), page, pageSize), nil
}

func (s *chapterService) GetChapter(ctx context.Context, chapterID int64) (*dto.ChapterResponse, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	return dto.FromModelToChapterResponse(chapter), nil
}

func (s *chapterService) ReadChapter(ctx context.Context, chapterID int64, callerID, callerRole string) (*dto.ChapterContentResponse, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	entitled := !chapter.Priced()
	if !entitled && callerID != "" {
		if callerRole == models.RoleAdmin {
			entitled = true
		} else {
			novel, err := s.novelRepo.GetByID(ctx, chapter.NovelID)
			if err != nil {
				return nil, err
			}
			if novel.AuthorID == callerID {
				entitled = true
			} else {
				unlocked, err := s.ledgerRepo.HasUnlocked(ctx, callerID, chapterID)
				if err != nil {
					return nil, err
				}
				entitled = unlocked
			}
		}
	}
	if !entitled {
		return nil, ErrChapterNotUnlocked
	}

	if err := s.chapterRepo.RecordView(ctx, chapter); err != nil {
		return nil, err
	}

	return &dto.ChapterContentResponse{
		ID:            chapter.ID,
		NovelID:       chapter.NovelID,
		ChapterNumber: chapter.ChapterNumber,
		Title:         chapter.Title,
		Content:       chapter.Content,
		WordCount:     chapter.WordCount,
	}, nil
}
