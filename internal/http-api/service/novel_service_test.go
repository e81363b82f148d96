package service

import (
	"context"
	"testing"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestCreateNovel_ReaderDenied(t *testing.T) {
	mockNovels := new(MockNovelRepository)
	mockUsers := new(MockUserRepository)
	svc := NewNovelService(mockNovels, mockUsers)

	mockUsers.On("FindByID", mock.Anything, "reader").
		Return(&models.User{ID: "reader", Role: models.RoleReader, IsActive: true}, nil)

	req := &dto.CreateNovelRequest{Title: "Mine", Description: "a long enough description", Genre: "fantasy"}
	novel, err := svc.CreateNovel(context.Background(), "reader", req)

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Nil(t, novel)
	mockNovels.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateNovel_InactiveAuthorDenied(t *testing.T) {
	mockNovels := new(MockNovelRepository)
	mockUsers := new(MockUserRepository)
	svc := NewNovelService(mockNovels, mockUsers)

	mockUsers.On("FindByID", mock.Anything, "writer").
		Return(&models.User{ID: "writer", Role: models.RoleAuthor, IsActive: false}, nil)

	req := &dto.CreateNovelRequest{Title: "Mine", Description: "a long enough description", Genre: "fantasy"}
	novel, err := svc.CreateNovel(context.Background(), "writer", req)

	assert.ErrorIs(t, err, ErrAccountInactive)
	assert.Nil(t, novel)
}

func TestCreateNovel_StartsAsDraft(t *testing.T) {
	mockNovels := new(MockNovelRepository)
	mockUsers := new(MockUserRepository)
	svc := NewNovelService(mockNovels, mockUsers)

	mockUsers.On("FindByID", mock.Anything, "writer").
		Return(&models.User{ID: "writer", Role: models.RoleAuthor, IsActive: true}, nil)
	mockNovels.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Novel) bool {
		return n.Status == models.NovelStatusDraft && n.AuthorID == "writer"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Novel).ID = 5
	}).Return(nil)

	req := &dto.CreateNovelRequest{Title: "Mine", Description: "a long enough description", Genre: "fantasy", Tags: []string{"magic"}}
	novel, err := svc.CreateNovel(context.Background(), "writer", req)

	assert.NoError(t, err)
	assert.Equal(t, models.NovelStatusDraft, novel.Status)
	assert.Equal(t, []string{"magic"}, novel.Tags)
	mockNovels.AssertExpectations(t)
}

func TestUpdateNovel_NonOwnerDenied(t *testing.T) {
	mockNovels := new(MockNovelRepository)
	svc := NewNovelService(mockNovels, new(MockUserRepository))

	mockNovels.On("GetByID", mock.Anything, int64(5)).Return(&models.Novel{ID: 5, AuthorID: "writer"}, nil)

	title := "Stolen"
	novel, err := svc.UpdateNovel(context.Background(), 5, "other-writer", models.RoleAuthor, &dto.UpdateNovelRequest{Title: &title})

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Nil(t, novel)
	mockNovels.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateNovel_FeatureFlagIsAdminOnly(t *testing.T) {
	mockNovels := new(MockNovelRepository)
	svc := NewNovelService(mockNovels, new(MockUserRepository))

	mockNovels.On("GetByID", mock.Anything, int64(5)).Return(&models.Novel{ID: 5, AuthorID: "writer"}, nil)

	featured := true
	novel, err := svc.UpdateNovel(context.Background(), 5, "writer", models.RoleAuthor, &dto.UpdateNovelRequest{IsFeatured: &featured})

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Nil(t, novel)
}

func TestUpdateNovel_AdminMayEditAnyNovel(t *testing.T) {
	mockNovels := new(MockNovelRepository)
	svc := NewNovelService(mockNovels, new(MockUserRepository))

	mockNovels.On("GetByID", mock.Anything, int64(5)).Return(&models.Novel{ID: 5, AuthorID: "writer"}, nil)
	mockNovels.On("UpdateFields", mock.Anything, int64(5), mock.MatchedBy(func(fields map[string]any) bool {
		return fields["status"] == models.NovelStatusCompleted
	})).Return(&models.Novel{ID: 5, AuthorID: "writer", Status: models.NovelStatusCompleted}, nil)

	status := models.NovelStatusCompleted
	novel, err := svc.UpdateNovel(context.Background(), 5, "admin-user", models.RoleAdmin, &dto.UpdateNovelRequest{Status: &status})

	assert.NoError(t, err)
	assert.Equal(t, models.NovelStatusCompleted, novel.Status)
}

func TestGetNovel_NotFound(t *testing.T) {
	mockNovels := new(MockNovelRepository)
	svc := NewNovelService(mockNovels, new(MockUserRepository))

	mockNovels.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	novel, err := svc.GetNovel(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNovelNotFound)
	assert.Nil(t, novel)
}
