package handler

import (
	"context"
	"time"

	"madrasa/internal/domain"
	"madrasa/internal/dto"
	"madrasa/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *sqlx.DB and *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the database and cache are reachable
type HealthHandler struct {
	db    Pinger
	cache domain.Cache // nil when redis is disabled
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check godoc
// @Summary Health check
// @Description Pings the database and the cache. The cache is optional and never fails the check.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "up", Cache: "disabled"}
	status := fiber.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		logger.Get().Error("Health check: database unreachable", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "down"
		status = fiber.StatusServiceUnavailable
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Health check: cache unreachable", zap.Error(err))
			resp.Cache = "down"
		} else {
			resp.Cache = "up"
		}
	}

	return c.Status(status).JSON(resp)
}
