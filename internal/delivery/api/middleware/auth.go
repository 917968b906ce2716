// Package middleware contains the echo middleware specific to the API transport.
package middleware

import (
	deliverycontext "authsvc/internal/delivery/context"
	"authsvc/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware guards routes that need a logged-in user.
type AuthMiddleware struct {
	auth usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(auth usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate resolves the Authorization header to a user and stores it on the context.
// Any failure is returned to the error handler and the next handler does not run.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.auth.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return err
		}

		deliverycontext.SetUser(c, user)

		return next(c)
	}
}
