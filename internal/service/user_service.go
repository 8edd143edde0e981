package service

import (
	"context"

	"career-assistant-be/internal/dto"
	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/pkg/serverutils"
	"career-assistant-be/internal/repository/specification"
	"career-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NewNotFound("User not found")
	}

	return toProfileResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users := uow.UserRepository()

	user, err := users.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NewNotFound("User not found")
	}

	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.ImageURL != nil {
		user.ImageURL = req.ImageURL
	}

	if err := users.Update(ctx, user); err != nil {
		return nil, err
	}

	return toProfileResponse(user), nil
}

func toProfileResponse(user *entity.User) *dto.UserProfileResponse {
	res := &dto.UserProfileResponse{
		Id:        user.Id,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
	if user.Bio != nil {
		res.Bio = *user.Bio
	}
	if user.ImageURL != nil {
		res.ImageURL = *user.ImageURL
	}
	return res
}
