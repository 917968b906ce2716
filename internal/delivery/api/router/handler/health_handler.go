package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "authsvc/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler reports whether the service and its database are reachable.
type HealthHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHealthHandler is the constructor for HealthHandler. A nil db skips the database check.
func NewHealthHandler(db *gorm.DB, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c echo.Context) error {
	if h.db != nil {
		if err := h.ping(c.Request().Context()); err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).
				Warn("Health check failed", slog.Any("error", err))

			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	return sqlDB.PingContext(ctx)
}
