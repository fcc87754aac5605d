package middleware

import (
	"errors"
	"strings"

	"medfind/internal/models"
	"medfind/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// LocalStore is the fiber Locals key holding the authenticated *models.Store.
const LocalStore = "store"

// AuthRequired is a Fiber middleware that resolves the bearer token to a store.
// Every rejection gets the same 401 body; the reason is only logged.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			log.Debug().Str("path", c.Path()).Msg("missing or malformed authorization header")
			return unauthorized(c)
		}

		store, err := authService.Authenticate(c.UserContext(), strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				return unauthorized(c)
			}
			log.Error().Err(err).Str("path", c.Path()).Msg("authentication failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Server error",
			})
		}

		c.Locals(LocalStore, store)
		return c.Next()
	}
}

// CurrentStore returns the store set by AuthRequired, or nil.
func CurrentStore(c *fiber.Ctx) *models.Store {
	store, _ := c.Locals(LocalStore).(*models.Store)
	return store
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Not authorized",
	})
}
