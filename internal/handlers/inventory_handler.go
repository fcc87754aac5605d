package handlers

import (
	"errors"
	"strconv"

	"medfind/internal/middleware"
	"medfind/internal/repositories"
	"medfind/internal/services"

	"github.com/gofiber/fiber/v2"
)

// maxPageLimit caps the optional limit query parameter.
const maxPageLimit = 100

// InventoryHandler handles HTTP requests for the authenticated store's medicines.
type InventoryHandler struct {
	service *services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(service *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		service: service,
	}
}

// RegisterRoutes registers the inventory routes. Every route requires protect.
func (h *InventoryHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	inventoryRoutes := router.Group("/inventory", protect)
	inventoryRoutes.Get("/", h.HandleList)
	inventoryRoutes.Get("/:id", h.HandleGet)
	inventoryRoutes.Post("/", h.HandleCreate)
	inventoryRoutes.Put("/:id", h.HandleUpdate)
	inventoryRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList lists the store's medicines. limit/offset are optional;
// without limit the whole inventory is returned.
func (h *InventoryHandler) HandleList(c *fiber.Ctx) error {
	store := middleware.CurrentStore(c)

	page, err := parsePage(c.Query("limit"), c.Query("offset"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	medicines, err := h.service.ListMedicines(c.UserContext(), store.ID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"count":     len(medicines),
		"medicines": medicines,
	})
}

// HandleGet returns one medicine of the store.
func (h *InventoryHandler) HandleGet(c *fiber.Ctx) error {
	store := middleware.CurrentStore(c)

	medicine, err := h.service.GetMedicine(c.UserContext(), store.ID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"medicine": medicine,
	})
}

// HandleCreate adds a medicine to the store's inventory.
func (h *InventoryHandler) HandleCreate(c *fiber.Ctx) error {
	store := middleware.CurrentStore(c)

	var req services.CreateMedicineInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	medicine, err := h.service.CreateMedicine(c.UserContext(), store.ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"medicine": medicine,
	})
}

// HandleUpdate partially updates a medicine of the store.
func (h *InventoryHandler) HandleUpdate(c *fiber.Ctx) error {
	store := middleware.CurrentStore(c)

	var req services.UpdateMedicineInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	medicine, err := h.service.UpdateMedicine(c.UserContext(), store.ID, c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"medicine": medicine,
	})
}

// HandleDelete removes a medicine of the store.
func (h *InventoryHandler) HandleDelete(c *fiber.Ctx) error {
	store := middleware.CurrentStore(c)

	if err := h.service.DeleteMedicine(c.UserContext(), store.ID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Medicine deleted successfully",
	})
}

// parsePage reads the optional paging parameters. limit must be a positive
// integer and is capped at maxPageLimit; offset must be a non-negative integer
// and only applies together with limit.
func parsePage(limit, offset string) (repositories.Page, error) {
	page := repositories.Page{}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return page, errors.New("limit must be a positive integer")
		}
		page.Limit = min(n, maxPageLimit)
	}
	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return page, errors.New("offset must be a non-negative integer")
		}
		page.Offset = n
	}
	return page, nil
}
