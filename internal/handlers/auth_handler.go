package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/halcyonchat/halcyon-backend/internal/httpx"
	"github.com/halcyonchat/halcyon-backend/internal/service"
	"github.com/halcyonchat/halcyon-backend/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "Invalid request body")
	}

	if !validation.ValidateUsername(input.Username) {
		return httpx.BadRequest(c, "Username must be 3-32 characters: letters, digits, underscore")
	}
	if !validation.ValidatePassword(input.Password) {
		return httpx.BadRequest(c, "Password is too short")
	}

	result, err := h.authService.Register(input)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			return httpx.Conflict(c, "Username already taken")
		}
		return httpx.Internal(c)
	}

	return httpx.Created(c, result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "Invalid request body")
	}
	if input.Username == "" || input.Password == "" {
		return httpx.BadRequest(c, "Username and password are required")
	}

	result, err := h.authService.Login(input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return httpx.Unauthorized(c, "Invalid credentials")
		}
		return httpx.Internal(c)
	}

	return httpx.OK(c, result)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.Me(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return httpx.NotFound(c, "User not found")
		}
		return httpx.Internal(c)
	}

	return httpx.OK(c, fiber.Map{"user": user.ToResponse()})
}
