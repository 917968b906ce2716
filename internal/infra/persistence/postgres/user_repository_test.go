package postgres

import (
	"context"
	"sync"
	"testing"

	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func requireFieldInUse(t *testing.T, err error, field string) {
	t.Helper()

	require.Error(t, err)
	var validationErr *domainerrors.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected validation error, got %v", err)
	assert.True(t, validationErr.HasField(field), "expected field %q in %v", field, validationErr)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newTestUser("TestUser", "mail@mail.com")
	require.NoError(t, repo.Create(ctx, user))

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, 0, user.Version)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, byID.Username)
	assert.Equal(t, user.Email, byID.Email)
	assert.Equal(t, user.PasswordHash, byID.PasswordHash)

	byEmail, err := repo.FindByEmail(ctx, "mail@mail.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byUsername, err := repo.FindByUsername(ctx, "TestUser")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@mail.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("TestUser", "mail@mail.com")))

	err := repo.Create(ctx, newTestUser("OtherUser", "mail@mail.com"))
	requireFieldInUse(t, err, "email")

	err = repo.Create(ctx, newTestUser("TestUser", "other@mail.com"))
	requireFieldInUse(t, err, "username")
}

func TestUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	users := []string{"FirstUser", "SecondUser"}
	errs := make([]error, len(users))

	var wg sync.WaitGroup
	for i, name := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = repo.Create(ctx, newTestUser(name, "same@mail.com"))
		}()
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++

			continue
		}
		failed++
		requireFieldInUse(t, err, "email")
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newTestUser("TestUser", "mail@mail.com")
	require.NoError(t, repo.Create(ctx, user))

	user.Email = "new@mail.com"
	user.PasswordHash = "new-hash"
	require.NoError(t, repo.Update(ctx, user))
	assert.Equal(t, 1, user.Version)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@mail.com", stored.Email)
	assert.Equal(t, "new-hash", stored.PasswordHash)
	assert.Equal(t, 1, stored.Version)
}

func TestUserRepository_UpdateStaleVersion(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newTestUser("TestUser", "mail@mail.com")
	require.NoError(t, repo.Create(ctx, user))

	stale := *user
	user.Email = "first@mail.com"
	require.NoError(t, repo.Update(ctx, user))

	stale.Email = "second@mail.com"
	err := repo.Update(ctx, &stale)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "first@mail.com", stored.Email)
}

func TestUserRepository_UpdateMissingUser(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := newTestUser("TestUser", "mail@mail.com")
	user.ID = uuid.New()

	err := repo.Update(context.Background(), user)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_UpdateEmailTaken(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("FirstUser", "first@mail.com")))
	second := newTestUser("SecondUser", "second@mail.com")
	require.NoError(t, repo.Create(ctx, second))

	second.Email = "first@mail.com"
	requireFieldInUse(t, repo.Update(ctx, second), "email")
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newTestUser("TestUser", "mail@mail.com")
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, user.ID), repository.ErrUserNotFound)
}

func TestUniqueViolationField(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "postgres email",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintUsersEmail},
			want: "email",
		},
		{
			name: "postgres username",
			err:  errors.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintUsersUsername}, "insert"),
			want: "username",
		},
		{
			name: "sqlite email",
			err:  errors.New("UNIQUE constraint failed: users.email"),
			want: "email",
		},
		{
			name: "unknown",
			err:  errors.Wrap(gorm.ErrDuplicatedKey, "insert"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, isUniqueConstraintViolation(tt.err))
			assert.Equal(t, tt.want, uniqueViolationField(tt.err))
		})
	}
}
