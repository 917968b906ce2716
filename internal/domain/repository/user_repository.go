// Package repository defines the interfaces for the persistence layer.
// These interfaces are the contract between the use cases and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authsvc/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the credential store. Lookups always return the password hash;
// callers decide what leaves the service.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a single user by username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create persists a new user and fills in ID, Version and timestamps.
	// A duplicate email or username fails with a field-level validation error.
	Create(ctx context.Context, user *entity.User) error

	// Update writes all mutable fields of user in one statement, guarded by user.Version.
	// On success the version is bumped.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}
