package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// formatValidationError converts validator errors to client-facing messages.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "ID":
				if tag == "required" {
					return "invalid request: id is required"
				}
				return "invalid request: id must be a valid UUID"
			case "Type":
				if tag == "required" {
					return "invalid request: type is required"
				}
				return "invalid request: type must be Store or Coupon"
			case "Action":
				if tag == "required" {
					return "invalid request: action is required"
				}
				return "invalid request: action must be view or action"
			case "Days":
				return "invalid request: days must be between 1 and 365"
			case "Month":
				return "invalid request: month must be between 1 and 12"
			case "Year":
				return "invalid request: year must be a 4-digit year"
			default:
				if tag == "required" {
					return "invalid request: " + field + " is required"
				}
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": msg})
}

// internalError logs err with request context and returns a non-leaky 500.
func internalError(c *fiber.Ctx, err error, msg string) error {
	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(msg)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "internal server error"})
}
