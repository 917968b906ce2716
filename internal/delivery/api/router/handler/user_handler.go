// Package handler contains the HTTP handlers for the API.
package handler

import (
	"log/slog"
	"net/http"

	"authsvc/internal/delivery/api/response"
	deliverycontext "authsvc/internal/delivery/context"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest is the body of POST /profile.
type CreateUserRequest struct {
	Username        string `json:"username" validate:"min=4,max=20"`
	Email           string `json:"email" validate:"email"`
	Password        string `json:"password" validate:"min=6,max=30,bcryptmax"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// UpdateProfileRequest is the body of PUT /profile. The current password is checked
// by the use case, so its absence is an authentication failure, not a validation one.
type UpdateProfileRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewEmail        string `json:"newEmail" validate:"omitempty,email"`
	NewPassword     string `json:"newPassword" validate:"omitempty,min=6,max=30,bcryptmax"`
}

// DeleteProfileRequest is the body of DELETE /profile.
type DeleteProfileRequest struct {
	Password string `json:"password"`
}

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	auth    usecase.AuthUsecase
	profile usecase.ProfileUsecase
	logger  *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(auth usecase.AuthUsecase, profile usecase.ProfileUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		auth:    auth,
		profile: profile,
		logger:  logger,
	}
}

// bindAndValidate decodes the JSON body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.").SetInternal(err)
	}

	return c.Validate(req)
}

// Login handles POST /login.
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.auth.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Token(c, output.Token)
}

// CreateUser handles POST /profile.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.profile.CreateUser(c.Request().Context(), &usecase.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.User(c, http.StatusCreated, user)
}

// GetProfile handles GET /profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, ok := deliverycontext.GetUser(c)
	if !ok {
		return domainerrors.ErrUserNotFound
	}

	return response.User(c, http.StatusOK, user)
}

// UpdateProfile handles PUT /profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, ok := deliverycontext.GetUser(c)
	if !ok {
		return domainerrors.ErrUserNotFound
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.profile.UpdateProfile(c.Request().Context(), user, &usecase.UpdateProfileInput{
		CurrentPassword: req.CurrentPassword,
		NewEmail:        req.NewEmail,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.User(c, http.StatusOK, updated)
}

// DeleteProfile handles DELETE /profile.
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	user, ok := deliverycontext.GetUser(c)
	if !ok {
		return domainerrors.ErrUserNotFound
	}

	var req DeleteProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.profile.DeleteProfile(c.Request().Context(), user, &usecase.DeleteProfileInput{
		Password: req.Password,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, domainerrors.MsgUserDeleted)
}
