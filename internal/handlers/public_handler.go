package handlers

import (
	"medfind/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PublicHandler serves the unauthenticated medicine search.
type PublicHandler struct {
	search *services.SearchService
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(search *services.SearchService) *PublicHandler {
	return &PublicHandler{search: search}
}

// RegisterRoutes registers the public routes.
func (h *PublicHandler) RegisterRoutes(router fiber.Router) {
	router.Group("/public").Get("/search", h.HandleSearch)
}

// HandleSearch answers GET /public/search?medicineName=&pincode=.
func (h *PublicHandler) HandleSearch(c *fiber.Ctx) error {
	result, err := h.search.Search(c.UserContext(), c.Query("medicineName"), c.Query("pincode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"query":        result.Query,
		"resultsCount": result.ResultsCount,
		"stores":       result.Stores,
	})
}
