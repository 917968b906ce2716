package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "authsvc/internal/delivery/context"
	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"
	"authsvc/internal/domain/service"
	"authsvc/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	publisher service.EventPublisher
	logger    *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateUser hashes the password and stores a new account. The uniqueness lookups
// and the insert share one transaction, and the store's unique indexes catch any race.
func (srv *profileService) CreateUser(ctx context.Context, input *usecase.CreateUserInput) (*entity.User, error) {
	srv.log(ctx).Info("Creating user", slog.String("username", input.Username))

	hash, err := srv.hashPassword(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return nil, err
	}

	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if err := checkAvailability(ctx, userRepo, user); err != nil {
			return err
		}

		return userRepo.Create(ctx, user)
	})
	if err != nil {
		var validationErr *domainerrors.ValidationError
		if errors.As(err, &validationErr) {
			srv.log(ctx).Info("User creation rejected", slog.String("reason", validationErr.Error()))

			return nil, err
		}

		srv.log(ctx).Error("Failed to execute user creation transaction", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user creation transaction")
	}

	srv.publish(ctx, entity.AccountEventCreated, user.ID)
	srv.log(ctx).Debug("User created", slog.Any("userID", user.ID))

	return user, nil
}

// checkAvailability reports every taken unique field at once.
func checkAvailability(ctx context.Context, userRepo repository.UserRepository, user *entity.User) error {
	fieldErrs := domainerrors.NewValidationError()

	_, err := userRepo.FindByEmail(ctx, user.Email)
	switch {
	case err == nil:
		fieldErrs.AddFieldInUse("email")
	case !errors.Is(err, repository.ErrUserNotFound):
		return errors.Wrap(err, "failed to find user by email")
	}

	_, err = userRepo.FindByUsername(ctx, user.Username)
	switch {
	case err == nil:
		fieldErrs.AddFieldInUse("username")
	case !errors.Is(err, repository.ErrUserNotFound):
		return errors.Wrap(err, "failed to find user by username")
	}

	if !fieldErrs.Empty() {
		return fieldErrs
	}

	return nil
}

// UpdateProfile re-checks the current password before touching the store.
// The caller's user is left as it was; the updated copy is returned.
func (srv *profileService) UpdateProfile(ctx context.Context, user *entity.User, input *usecase.UpdateProfileInput) (*entity.User, error) {
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	if err := srv.verifyPassword(ctx, user, input.CurrentPassword); err != nil {
		return nil, err
	}

	updated := user.Clone()
	if input.NewEmail != "" {
		updated.Email = input.NewEmail
	}
	if input.NewPassword != "" {
		hash, err := srv.hashPassword(input.NewPassword)
		if err != nil {
			srv.log(ctx).Error("Failed to hash password", slog.Any("userID", user.ID), slog.Any("error", err))

			return nil, err
		}
		updated.PasswordHash = hash
	}

	if err := srv.userRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}
		// The store names its column; the request calls it newEmail.
		var validationErr *domainerrors.ValidationError
		if errors.As(err, &validationErr) && validationErr.HasField("email") {
			srv.log(ctx).Info("Profile update rejected", slog.Any("userID", user.ID), slog.String("reason", "email in use"))

			return nil, domainerrors.NewFieldInUseError("newEmail")
		}

		srv.log(ctx).Warn("Failed to update user", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update user")
	}

	srv.log(ctx).Debug("Profile updated",
		slog.Any("userID", user.ID),
		slog.Bool("emailChanged", updated.Email != user.Email),
		slog.Bool("passwordChanged", input.NewPassword != ""),
	)

	return updated, nil
}

// DeleteProfile re-checks the password, then removes the account.
func (srv *profileService) DeleteProfile(ctx context.Context, user *entity.User, input *usecase.DeleteProfileInput) error {
	if user == nil {
		return domainerrors.ErrUserNotFound
	}
	if err := srv.verifyPassword(ctx, user, input.Password); err != nil {
		return err
	}

	if err := srv.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		srv.log(ctx).Error("Failed to delete user", slog.Any("userID", user.ID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete user")
	}

	srv.publish(ctx, entity.AccountEventDeleted, user.ID)
	srv.log(ctx).Info("User deleted", slog.Any("userID", user.ID))

	return nil
}

func (srv *profileService) verifyPassword(ctx context.Context, user *entity.User, password string) error {
	if password == "" || !srv.hasher.Check(password, user.PasswordHash) {
		srv.log(ctx).Info("Password re-check failed", slog.Any("userID", user.ID))

		return domainerrors.ErrInvalidPassword
	}

	return nil
}

func (srv *profileService) hashPassword(password string) (string, error) {
	hash, err := srv.hasher.Hash(password)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}
	if hash == "" || hash == password {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage("hasher returned an unusable hash")
	}

	return hash, nil
}

// publish emits an account event. The request has already succeeded, so failures are only logged.
func (srv *profileService) publish(ctx context.Context, eventType entity.AccountEventType, userID uuid.UUID) {
	if srv.publisher == nil {
		return
	}

	event := &entity.AccountEvent{
		Type:       eventType,
		UserID:     userID,
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		OccurredAt: time.Now().UTC(),
	}
	if err := srv.publisher.PublishAccountEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account event",
			slog.String("type", string(eventType)),
			slog.Any("userID", userID),
			slog.Any("error", err),
		)
	}
}
