// Package response renders the JSON bodies the API returns.
package response

import (
	"net/http"

	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// UserView is the only shape in which a user leaves the service.
type UserView struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// MessageResponse carries a single human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ValidationResponse lists every rejected request field.
type ValidationResponse struct {
	Errors []FieldErrorView `json:"errors"`
}

// FieldErrorView describes one rejected field.
type FieldErrorView struct {
	Param    string `json:"param"`
	Msg      string `json:"msg"`
	Location string `json:"location"`
}

// NewUserView strips everything but id, username and email.
func NewUserView(user *entity.User) UserView {
	return UserView{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}
}

// User returns the sanitized view of user.
func User(c echo.Context, statusCode int, user *entity.User) error {
	return c.JSON(statusCode, NewUserView(user))
}

// Token returns a bearer token.
func Token(c echo.Context, token string) error {
	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Message returns {"message": message}.
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageResponse{Message: message})
}

// Validation returns a 400 listing the rejected fields.
func Validation(c echo.Context, err *domainerrors.ValidationError) error {
	views := make([]FieldErrorView, 0, len(err.Fields))
	for _, f := range err.Fields {
		views = append(views, FieldErrorView{
			Param:    f.Field,
			Msg:      f.Message,
			Location: "body",
		})
	}

	return c.JSON(http.StatusBadRequest, ValidationResponse{Errors: views})
}

// InternalServerError returns the generic 500 body.
func InternalServerError(c echo.Context) error {
	return Message(c, http.StatusInternalServerError, domainerrors.MsgServerError)
}
