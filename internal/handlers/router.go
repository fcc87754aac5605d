package handlers

import (
	"time"

	"medfind/internal/middleware"
	"medfind/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Auth      *services.AuthService
	Inventory *services.InventoryService
	Search    *services.SearchService
}

// RegisterRoutes mounts every API route under /api.
func RegisterRoutes(app *fiber.App, deps Deps) {
	api := app.Group("/api")
	protect := middleware.AuthRequired(deps.Auth)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "OK",
			"message": "Backend server is running",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	NewAuthHandler(deps.Auth).RegisterRoutes(api, protect)
	NewInventoryHandler(deps.Inventory).RegisterRoutes(api, protect)
	NewPublicHandler(deps.Search).RegisterRoutes(api)
}
