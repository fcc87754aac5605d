package handlers

import (
	"errors"

	"medfind/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// respondError translates a service error into the {message} error body.
// Unexpected errors are logged and reported generically.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrConflict):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrVersionConflict):
		status = fiber.StatusConflict
	}

	var appErr *services.Error
	if status == fiber.StatusInternalServerError || !errors.As(err, &appErr) {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": appErr.Message,
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Debug().Err(err).Str("path", c.Path()).Msg("error parsing request body")
	return badRequest(c, "Invalid request body")
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}
