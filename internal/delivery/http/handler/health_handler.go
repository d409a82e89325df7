package handler

import (
	"context"
	"time"

	"talentmatch/internal/infrastructure/cache"
	"talentmatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	redis *cache.Redis
}

func NewHealthHandler(db Pinger, redis *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *HealthHandler) Liveness(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"status": "up"})
}

// Readiness reports per-dependency state. Redis being down does not fail
// readiness since the service runs cache-bypassed without it.
func (h *HealthHandler) Readiness(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"database": "up", "cache": "up"}
	status := fiber.StatusOK

	if h.db == nil || h.db.Ping(ctx) != nil {
		checks["database"] = "down"
		status = fiber.StatusServiceUnavailable
	}
	if h.redis == nil || h.redis.Ping(ctx) != nil {
		checks["cache"] = "down"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageServiceUnavailable, checks)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, checks)
}
