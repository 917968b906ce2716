// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"
	"authsvc/internal/infra/persistence/model"
	"authsvc/internal/infra/persistence/postgres/query"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// userRepository implements repository.UserRepository using GORM Gen.
type userRepository struct {
	q *query.Query
}

// NewUserRepository returns the GORM-backed credential store.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{q: query.Use(db)}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "failed to find user by id", repo.q.UserModel.ID.Eq(id))
}

// FindByEmail retrieves a single user by email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "failed to find user by email", repo.q.UserModel.Email.Eq(email))
}

// FindByUsername retrieves a single user by username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.findOne(ctx, "failed to find user by username", repo.q.UserModel.Username.Eq(username))
}

func (repo *userRepository) findOne(ctx context.Context, op string, conds ...gen.Condition) (*entity.User, error) {
	userM, err := repo.q.UserModel.WithContext(ctx).Where(conds...).Take()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, op)
	}

	return toUserDomain(userM), nil
}

// Create inserts the user. A missing ID is filled with a UUIDv7.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)
	if userM.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate user id")
		}
		userM.ID = id
	}

	if err := repo.q.UserModel.WithContext(ctx).Create(userM); err != nil {
		return repo.translateWriteError(ctx, err, userM, "failed to create user")
	}

	user.ID = userM.ID
	user.Version = userM.Version
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update writes username, email and hash in a single statement that only matches
// the version the caller read. The caller's user gets the new version on success.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	now := time.Now()
	u := repo.q.UserModel

	result, err := u.WithContext(ctx).
		Where(u.ID.Eq(user.ID), u.Version.Eq(user.Version)).
		UpdateSimple(
			u.Username.Value(user.Username),
			u.Email.Value(user.Email),
			u.PasswordHash.Value(user.PasswordHash),
			u.Version.Add(1),
			u.UpdatedAt.Value(now),
		)
	if err != nil {
		return repo.translateWriteError(ctx, err, fromUserDomain(user), "failed to update user")
	}

	if result.RowsAffected == 0 {
		if _, err := repo.FindByID(ctx, user.ID); err != nil {
			return err
		}

		return domainerrors.ErrConflict.WrapMessage("user was modified concurrently")
	}

	user.Version++
	user.UpdatedAt = now

	return nil
}

// Delete removes the user row.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := repo.q.UserModel.WithContext(ctx).Where(repo.q.UserModel.ID.Eq(id)).Delete()
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// translateWriteError maps driver errors on insert/update to domain errors.
// Unique violations become a field-level validation error naming the taken field.
func (repo *userRepository) translateWriteError(ctx context.Context, err error, userM *model.UserModel, op string) error {
	if isUniqueConstraintViolation(err) {
		field := uniqueViolationField(err)
		if field == "" {
			field = repo.conflictingField(ctx, userM)
		}

		return errors.WithStack(domainerrors.NewFieldInUseError(field))
	}
	if isNotNullConstraintViolation(err) {
		return domainerrors.NewDatabaseExecuteError(err, op+": missing required user information")
	}

	return domainerrors.NewDatabaseExecuteError(err, op)
}

// conflictingField looks up which unique field is already taken by another user.
// Email is reported when the lookup cannot tell, e.g. inside an aborted transaction.
func (repo *userRepository) conflictingField(ctx context.Context, userM *model.UserModel) string {
	if existing, err := repo.FindByUsername(ctx, userM.Username); err == nil && existing.ID != userM.ID {
		return "username"
	}

	return "email"
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Version:      data.Version,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Version:      data.Version,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
