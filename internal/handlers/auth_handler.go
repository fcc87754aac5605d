package handlers

import (
	"medfind/internal/middleware"
	"medfind/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for store registration and login.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes. protect guards /me.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/me", protect, h.HandleMe)
}

// HandleRegister handles new store registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	res, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   res.Token,
		"store":   res.Store,
	})
}

// HandleLogin handles store login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	res, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   res.Token,
		"store":   res.Store,
	})
}

// HandleMe returns the profile of the authenticated store.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"store":   middleware.CurrentStore(c),
	})
}
