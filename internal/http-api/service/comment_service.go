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
	ErrCommentNotFound = errors.New("comment not found")
	ErrNestedReply     = errors.New("replies cannot be nested")
	ErrParentMismatch  = errors.New("parent comment belongs to another chapter")
)

type CommentService interface {
	// CreateComment attaches a comment to a chapter. Replies are one
	// level deep: a reply's parent must be a top-level comment on the
	// same chapter.
	CreateComment(ctx context.Context, chapterID int64, userID string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetComments(ctx context.Context, chapterID int64) ([]dto.CommentResponse, error)
	ModerateComment(ctx context.Context, commentID int64, approved bool) (*dto.CommentResponse, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	chapterRepo repository.ChapterRepository
}

func NewCommentService(commentRepo repository.CommentRepository, chapterRepo repository.ChapterRepository) CommentService {
	return &commentService{commentRepo: commentRepo, chapterRepo: chapterRepo}
}

func (s *commentService) CreateComment(ctx context.Context, chapterID int64, userID string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.chapterRepo.GetByID(ctx, chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.ChapterID != chapterID {
			return nil, ErrParentMismatch
		}
		if parent.ParentID != nil {
			return nil, ErrNestedReply
		}
	}

	comment := &models.Comment{
		ChapterID: chapterID,
		UserID:    userID,
		Content:   req.Content,
		ParentID:  req.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) GetComments(ctx context.Context, chapterID int64) ([]dto.CommentResponse, error) {
	if _, err := s.chapterRepo.GetByID(ctx, chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	comments, err := s.commentRepo.GetByChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return responses, nil
}

func (s *commentService) ModerateComment(ctx context.Context, commentID int64, approved bool) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.SetModerated(ctx, commentID, approved)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}
