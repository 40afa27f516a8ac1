package service

import (
	"context"

	"chirp/internal/auth"
	"chirp/internal/models"
	"chirp/internal/repository"
)

// UserService owns profile reads and whitelisted profile edits.
type UserService struct {
	users repository.UserRepository
}

// UpdateProfileInput carries the editable profile fields. Empty fields are
// left unchanged; anything outside this whitelist is ignored.
type UpdateProfileInput struct {
	UserID   uint
	UserName string
	Bio      string
	Password string
}

// NewUserService returns a UserService bound to the user repository.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile applies the whitelisted edits. A new password is hashed
// before it reaches the repository; plaintext is never stored.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxUserNameLen = 30

	if in.UserName != "" {
		if len(in.UserName) > maxUserNameLen {
			return nil, models.NewValidationError("Username too long (max 30 characters)")
		}
		user.UserName = in.UserName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Password != "" {
		digest, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = digest
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
