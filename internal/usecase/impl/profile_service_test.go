package impl

import (
	"context"
	"testing"

	deliverycontext "authsvc/internal/delivery/context"
	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"
	mockRepo "authsvc/internal/mocks/repository"
	mockService "authsvc/internal/mocks/service"
	"authsvc/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// profileServiceFixtures holds all test dependencies for profile service tests.
type profileServiceFixtures struct {
	service   usecase.ProfileUsecase
	txManager *mockRepo.MockTransactionManager
	factory   *mockRepo.MockRepositoryFactory
	txRepo    *mockRepo.MockUserRepository
	userRepo  *mockRepo.MockUserRepository
	hasher    *mockService.MockPasswordHasher
	publisher *mockService.MockEventPublisher
}

func createTestProfileService(t *testing.T) profileServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	factory := mockRepo.NewMockRepositoryFactory(t)
	txManager.Factory = factory

	fixtures := profileServiceFixtures{
		txManager: txManager,
		factory:   factory,
		txRepo:    mockRepo.NewMockUserRepository(t),
		userRepo:  mockRepo.NewMockUserRepository(t),
		hasher:    mockService.NewMockPasswordHasher(t),
		publisher: mockService.NewMockEventPublisher(t),
	}
	fixtures.service = NewProfileService(ProfileServiceParams{
		TxManager: txManager,
		UserRepo:  fixtures.userRepo,
		Hasher:    fixtures.hasher,
		Publisher: fixtures.publisher,
		Logger:    newDiscardLogger(),
	})

	return fixtures
}

func (fx profileServiceFixtures) expectTransaction() {
	fx.txManager.On("Execute", mock.Anything, mock.Anything).Return(nil).Once()
	fx.factory.On("UserRepo").Return(fx.txRepo)
}

func existingUser() *entity.User {
	return &entity.User{
		ID:           uuid.New(),
		Username:     "TestUser",
		Email:        "mail@mail.com",
		PasswordHash: "hashed",
		Version:      3,
	}
}

func eventOfType(eventType entity.AccountEventType, userID uuid.UUID) any {
	return mock.MatchedBy(func(event *entity.AccountEvent) bool {
		return event.Type == eventType && event.UserID == userID
	})
}

func TestProfileService_CreateUser_Success(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := deliverycontext.WithRequestID(context.Background(), "req-1")
	newID := uuid.New()

	fx.hasher.On("Hash", "password").Return("hashed", nil)
	fx.expectTransaction()
	fx.txRepo.On("FindByEmail", mock.Anything, "mail@mail.com").Return(nil, repository.ErrUserNotFound)
	fx.txRepo.On("FindByUsername", mock.Anything, "TestUser").Return(nil, repository.ErrUserNotFound)
	fx.txRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Username == "TestUser" && u.Email == "mail@mail.com" && u.PasswordHash == "hashed"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.User).ID = newID
	}).Return(nil)
	fx.publisher.On("PublishAccountEvent", mock.Anything, mock.MatchedBy(func(event *entity.AccountEvent) bool {
		return event.Type == entity.AccountEventCreated && event.UserID == newID && event.RequestID == "req-1"
	})).Return(nil)

	user, err := fx.service.CreateUser(ctx, &usecase.CreateUserInput{
		Username: "TestUser",
		Email:    "mail@mail.com",
		Password: "password",
	})

	require.NoError(t, err)
	assert.Equal(t, newID, user.ID)
	assert.Equal(t, "hashed", user.PasswordHash)
	assert.NotEqual(t, "password", user.PasswordHash)
}

func TestProfileService_CreateUser_FieldsInUse(t *testing.T) {
	fx := createTestProfileService(t)
	taken := existingUser()

	fx.hasher.On("Hash", "password").Return("hashed", nil)
	fx.expectTransaction()
	fx.txRepo.On("FindByEmail", mock.Anything, taken.Email).Return(taken, nil)
	fx.txRepo.On("FindByUsername", mock.Anything, taken.Username).Return(taken, nil)

	_, err := fx.service.CreateUser(context.Background(), &usecase.CreateUserInput{
		Username: taken.Username,
		Email:    taken.Email,
		Password: "password",
	})

	var validationErr *domainerrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.True(t, validationErr.HasField("email"))
	assert.True(t, validationErr.HasField("username"))
	fx.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	fx.publisher.AssertNotCalled(t, "PublishAccountEvent", mock.Anything, mock.Anything)
}

func TestProfileService_CreateUser_LostRace(t *testing.T) {
	fx := createTestProfileService(t)

	fx.hasher.On("Hash", "password").Return("hashed", nil)
	fx.expectTransaction()
	fx.txRepo.On("FindByEmail", mock.Anything, "mail@mail.com").Return(nil, repository.ErrUserNotFound)
	fx.txRepo.On("FindByUsername", mock.Anything, "TestUser").Return(nil, repository.ErrUserNotFound)
	fx.txRepo.On("Create", mock.Anything, mock.Anything).Return(errors.WithStack(domainerrors.NewFieldInUseError("email")))

	_, err := fx.service.CreateUser(context.Background(), &usecase.CreateUserInput{
		Username: "TestUser",
		Email:    "mail@mail.com",
		Password: "password",
	})

	var validationErr *domainerrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.True(t, validationErr.HasField("email"))
}

func TestProfileService_CreateUser_HashFails(t *testing.T) {
	fx := createTestProfileService(t)
	fx.hasher.On("Hash", "password").Return("", errors.New("entropy exhausted"))

	_, err := fx.service.CreateUser(context.Background(), &usecase.CreateUserInput{
		Username: "TestUser",
		Email:    "mail@mail.com",
		Password: "password",
	})

	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
	fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestProfileService_CreateUser_PublishFailureIsIgnored(t *testing.T) {
	fx := createTestProfileService(t)

	fx.hasher.On("Hash", "password").Return("hashed", nil)
	fx.expectTransaction()
	fx.txRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, repository.ErrUserNotFound)
	fx.txRepo.On("FindByUsername", mock.Anything, mock.Anything).Return(nil, repository.ErrUserNotFound)
	fx.txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	fx.publisher.On("PublishAccountEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	user, err := fx.service.CreateUser(context.Background(), &usecase.CreateUserInput{
		Username: "TestUser",
		Email:    "mail@mail.com",
		Password: "password",
	})

	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestProfileService_UpdateProfile_ChangeEmail(t *testing.T) {
	fx := createTestProfileService(t)
	user := existingUser()

	fx.hasher.On("Check", "password", "hashed").Return(true)
	fx.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.ID == user.ID && u.Email == "new@mail.com" && u.PasswordHash == "hashed" && u.Version == 3
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.User).Version++
	}).Return(nil)

	updated, err := fx.service.UpdateProfile(context.Background(), user, &usecase.UpdateProfileInput{
		CurrentPassword: "password",
		NewEmail:        "new@mail.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "new@mail.com", updated.Email)
	assert.Equal(t, 4, updated.Version)
	assert.Equal(t, "mail@mail.com", user.Email)
}

func TestProfileService_UpdateProfile_ChangePassword(t *testing.T) {
	fx := createTestProfileService(t)
	user := existingUser()

	fx.hasher.On("Check", "password", "hashed").Return(true)
	fx.hasher.On("Hash", "new-password").Return("new-hashed", nil)
	fx.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.PasswordHash == "new-hashed" && u.Email == "mail@mail.com"
	})).Return(nil)

	updated, err := fx.service.UpdateProfile(context.Background(), user, &usecase.UpdateProfileInput{
		CurrentPassword: "password",
		NewPassword:     "new-password",
	})

	require.NoError(t, err)
	assert.Equal(t, "new-hashed", updated.PasswordHash)
	assert.Equal(t, "hashed", user.PasswordHash)
}

func TestProfileService_UpdateProfile_InvalidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		checked  bool
	}{
		{name: "wrong password", password: "wrong", checked: true},
		{name: "missing password", password: "", checked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestProfileService(t)
			user := existingUser()
			if tt.checked {
				fx.hasher.On("Check", tt.password, "hashed").Return(false)
			}

			updated, err := fx.service.UpdateProfile(context.Background(), user, &usecase.UpdateProfileInput{
				CurrentPassword: tt.password,
				NewEmail:        "new@mail.com",
			})

			assert.Nil(t, updated)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidPassword)
			assert.Equal(t, "mail@mail.com", user.Email)
			fx.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestProfileService_UpdateProfile_Conflict(t *testing.T) {
	fx := createTestProfileService(t)
	user := existingUser()

	fx.hasher.On("Check", "password", "hashed").Return(true)
	fx.userRepo.On("Update", mock.Anything, mock.Anything).
		Return(domainerrors.ErrConflict.WrapMessage("user was modified concurrently"))

	_, err := fx.service.UpdateProfile(context.Background(), user, &usecase.UpdateProfileInput{
		CurrentPassword: "password",
		NewEmail:        "new@mail.com",
	})

	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestProfileService_UpdateProfile_EmailInUse(t *testing.T) {
	fx := createTestProfileService(t)
	user := existingUser()

	fx.hasher.On("Check", "password", "hashed").Return(true)
	fx.userRepo.On("Update", mock.Anything, mock.Anything).
		Return(errors.WithStack(domainerrors.NewFieldInUseError("email")))

	_, err := fx.service.UpdateProfile(context.Background(), user, &usecase.UpdateProfileInput{
		CurrentPassword: "password",
		NewEmail:        "taken@mail.com",
	})

	var validationErr *domainerrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, []domainerrors.FieldError{{Field: "newEmail", Message: "newEmail is in use."}}, validationErr.Fields)
}

func TestProfileService_UpdateProfile_UserGone(t *testing.T) {
	fx := createTestProfileService(t)
	user := existingUser()

	fx.hasher.On("Check", "password", "hashed").Return(true)
	fx.userRepo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrUserNotFound)

	_, err := fx.service.UpdateProfile(context.Background(), user, &usecase.UpdateProfileInput{
		CurrentPassword: "password",
		NewEmail:        "new@mail.com",
	})

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestProfileService_UpdateProfile_NoUser(t *testing.T) {
	fx := createTestProfileService(t)

	_, err := fx.service.UpdateProfile(context.Background(), nil, &usecase.UpdateProfileInput{CurrentPassword: "password"})

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestProfileService_DeleteProfile_Success(t *testing.T) {
	fx := createTestProfileService(t)
	user := existingUser()

	fx.hasher.On("Check", "password", "hashed").Return(true)
	fx.userRepo.On("Delete", mock.Anything, user.ID).Return(nil)
	fx.publisher.On("PublishAccountEvent", mock.Anything, eventOfType(entity.AccountEventDeleted, user.ID)).Return(nil)

	err := fx.service.DeleteProfile(context.Background(), user, &usecase.DeleteProfileInput{Password: "password"})

	require.NoError(t, err)
}

func TestProfileService_DeleteProfile_InvalidPassword(t *testing.T) {
	fx := createTestProfileService(t)
	user := existingUser()

	fx.hasher.On("Check", "wrong", "hashed").Return(false)

	err := fx.service.DeleteProfile(context.Background(), user, &usecase.DeleteProfileInput{Password: "wrong"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidPassword)
	fx.userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	fx.publisher.AssertNotCalled(t, "PublishAccountEvent", mock.Anything, mock.Anything)
}

func TestProfileService_DeleteProfile_StoreError(t *testing.T) {
	fx := createTestProfileService(t)
	user := existingUser()
	storeErr := domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "failed to delete user")

	fx.hasher.On("Check", "password", "hashed").Return(true)
	fx.userRepo.On("Delete", mock.Anything, user.ID).Return(storeErr)

	err := fx.service.DeleteProfile(context.Background(), user, &usecase.DeleteProfileInput{Password: "password"})

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 500, appErr.HTTPCode())
	fx.publisher.AssertNotCalled(t, "PublishAccountEvent", mock.Anything, mock.Anything)
}
