package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const healthPingTimeout = 2 * time.Second

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PendingCounter reports the number of background tasks still running.
type PendingCounter interface {
	InFlight() int
}

// HealthHandler reports database reachability and the tracking backlog.
type HealthHandler struct {
	db      Pinger
	pending PendingCounter
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, pending PendingCounter) *HealthHandler {
	return &HealthHandler{db: db, pending: pending}
}

// Check handles GET /health.
// 200 {"status":"healthy","pending_tracking":n} when the database answers within
// healthPingTimeout, 503 {"status":"unhealthy",...} otherwise. The backlog is
// reported either way so operators can see writes piling up behind an outage.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	pending := h.pending.InFlight()

	ctx, cancel := context.WithTimeout(c.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.Error().Err(err).Int("pending_tracking", pending).Msg("health check failed: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":           "unhealthy",
			"error":            "database connection failed",
			"pending_tracking": pending,
		})
	}
	return c.JSON(fiber.Map{
		"status":           "healthy",
		"pending_tracking": pending,
	})
}
