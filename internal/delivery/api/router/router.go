// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authsvc/internal/delivery/api/middleware"
	"authsvc/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	HealthHandler  *handler.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	healthHandler  *handler.HealthHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		healthHandler:  params.HealthHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.Check)

	e.POST("/login", r.userHandler.Login)

	// Creating a profile is public; the other /profile methods act on the caller.
	e.POST("/profile", r.userHandler.CreateUser)
	e.GET("/profile", r.userHandler.GetProfile, r.authMiddleware.Authenticate)
	e.PUT("/profile", r.userHandler.UpdateProfile, r.authMiddleware.Authenticate)
	e.DELETE("/profile", r.userHandler.DeleteProfile, r.authMiddleware.Authenticate)
}
