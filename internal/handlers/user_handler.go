package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/halcyonchat/halcyon-backend/internal/httpx"
	"github.com/halcyonchat/halcyon-backend/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "Unauthorized")
	}

	users, err := h.userService.ListUsers(userID)
	if err != nil {
		return httpx.Internal(c)
	}

	return httpx.OK(c, fiber.Map{"users": users})
}

func (h *UserHandler) SearchUsers(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "Unauthorized")
	}

	users, err := h.userService.SearchUsers(c.Query("q"), userID)
	if err != nil {
		return httpx.Internal(c)
	}

	return httpx.OK(c, fiber.Map{"users": users})
}
