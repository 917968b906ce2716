// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"authsvc/internal/domain/entity"
)

// AuthUsecase verifies credentials and resolves bearer tokens to users.
type AuthUsecase interface {
	// Login checks email and password and issues a token for the matching user.
	// Unknown email and wrong password fail identically.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Authenticate resolves an Authorization header value ("Bearer <token>")
	// to the user the token was issued for.
	Authenticate(ctx context.Context, authorization string) (*entity.User, error)
}

// --- Input DTOs ---

// LoginInput holds the credentials submitted to the login operation.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// LoginOutput carries the issued bearer token.
type LoginOutput struct {
	Token string
}
