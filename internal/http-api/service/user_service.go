package service

import (
	"context"
	"errors"

	"novelhub/internal/http-api/dto"
	"novelhub/internal/http-api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	// UpdateUser applies the non-nil fields of req. Role and is_active
	// may only be changed when adminCaller is true.
	UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest, adminCaller bool) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, role *string, isActive *bool, page, pageSize int) (*dto.PaginatedUserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest, adminCaller bool) (*dto.UserResponse, error) {
	fields := map[string]any{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Role != nil {
		if !adminCaller {
			return nil, ErrPermissionDenied
		}
		fields["role"] = *req.Role
	}
	if req.IsActive != nil {
		if !adminCaller {
			return nil, ErrPermissionDenied
		}
		fields["is_active"] = *req.IsActive
	}
	if req.TwoFactorEnabled != nil {
		fields["two_factor_enabled"] = *req.TwoFactorEnabled
	}
	if len(fields) == 0 {
		return s.GetUser(ctx, id)
	}

	user, err := s.userRepo.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, role *string, isActive *bool, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.List(ctx, repository.UserFilter{Role: role, IsActive: isActive}, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginatedUserResponse(responses, int(total), page, pageSize), nil
}
