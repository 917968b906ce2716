package usecase

import (
	"context"

	"authsvc/internal/domain/entity"
)

// ProfileUsecase creates accounts and guards mutations of an authenticated user's profile.
type ProfileUsecase interface {
	// CreateUser registers a new account. Taken email or username fail with a validation error.
	CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error)

	// UpdateProfile re-checks the current password, then changes email and/or password.
	UpdateProfile(ctx context.Context, user *entity.User, input *UpdateProfileInput) (*entity.User, error)

	// DeleteProfile re-checks the password, then removes the account.
	DeleteProfile(ctx context.Context, user *entity.User, input *DeleteProfileInput) error
}

// --- Input DTOs ---

// CreateUserInput defines the data required to register an account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

// UpdateProfileInput defines a profile change. Empty optional fields are left untouched.
type UpdateProfileInput struct {
	CurrentPassword string
	NewEmail        string
	NewPassword     string
}

// DeleteProfileInput carries the password confirming an account deletion.
type DeleteProfileInput struct {
	Password string
}
