package service

import (
	"context"

	"libmanage/internal/microservices/http-api/models"
	"libmanage/internal/microservices/http-api/repository"
)

type ProfileInput struct {
	Username string  `json:"username" validate:"max=150"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Phone    string  `json:"phone" validate:"omitempty,numeric,max=11"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=255"`
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Save(ctx context.Context, userID string, in ProfileInput) (*models.UserProfile, error)
}

type profileService struct {
	repo      repository.ProfileRepository
	validator *Validator
}

func NewProfileService(repo repository.ProfileRepository, v *Validator) ProfileService {
	if v == nil {
		v = NewValidator()
	}
	return &profileService{repo: repo, validator: v}
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	return p, translate(err)
}

func (s *profileService) Save(ctx context.Context, userID string, in ProfileInput) (*models.UserProfile, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	p := &models.UserProfile{
		UserID:   userID,
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		Avatar:   in.Avatar,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, userID)
}
