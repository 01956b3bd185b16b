package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
)

// TrackerInterface defines the interface for recording tracking events.
type TrackerInterface interface {
	Track(ctx context.Context, ev model.TrackEvent) error
}

// TaskDispatcher runs work detached from the request lifecycle.
type TaskDispatcher interface {
	Go(taskName string, fn func(ctx context.Context) error) error
}

// TrackHandler handles the public tracking endpoint.
type TrackHandler struct {
	tracker    TrackerInterface
	dispatcher TaskDispatcher
	validator  *validator.Validate
}

// NewTrackHandler creates a new TrackHandler.
func NewTrackHandler(tracker TrackerInterface, dispatcher TaskDispatcher, v *validator.Validate) *TrackHandler {
	return &TrackHandler{tracker: tracker, dispatcher: dispatcher, validator: v}
}

// Track handles POST /api/analytics/track.
// The event is recorded in the background; the response never waits for storage
// and never reports storage failures.
func (h *TrackHandler) Track(c *fiber.Ctx) error {
	var req model.TrackRequest

	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, formatValidationError(err))
	}

	ev := req.Event()
	err := h.dispatcher.Go("track_event", func(ctx context.Context) error {
		return h.tracker.Track(ctx, ev)
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("target_id", ev.TargetID).
			Str("target_type", string(ev.TargetType)).
			Str("action", string(ev.Action)).
			Msg("tracking event dropped")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Tracked"})
}
