package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/halcyonchat/halcyon-backend/internal/httpx"
	"github.com/halcyonchat/halcyon-backend/internal/service"
	"github.com/halcyonchat/halcyon-backend/internal/validation"
)

type MessageHandler struct {
	chatService *service.ChatService
}

func NewMessageHandler(chatService *service.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

func (h *MessageHandler) GetConversations(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "Unauthorized")
	}

	conversations, err := h.chatService.ListConversations(userID)
	if err != nil {
		return httpx.Internal(c)
	}

	return httpx.OK(c, fiber.Map{"conversations": conversations})
}

func (h *MessageHandler) CreateConversation(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		ParticipantID string `json:"participantId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "Invalid request body")
	}
	if input.ParticipantID == "" {
		return httpx.BadRequest(c, "participantId is required")
	}

	conversation, err := h.chatService.GetOrCreateConversation(userID, input.ParticipantID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return httpx.NotFound(c, "Participant not found")
		}
		return httpx.Internal(c)
	}

	return httpx.OK(c, fiber.Map{"conversation": conversation})
}

func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "Unauthorized")
	}

	conversationID := c.Params("conversationId")
	if conversationID == "" {
		return httpx.BadRequest(c, "conversationId is required")
	}

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	result, err := h.chatService.ListMessages(userID, conversationID, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			return httpx.Forbidden(c, "Not a participant of this conversation")
		case errors.Is(err, service.ErrNotFound):
			return httpx.NotFound(c, "Conversation not found")
		default:
			return httpx.Internal(c)
		}
	}

	return httpx.OK(c, result)
}

func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "Unauthorized")
	}

	var input service.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "Invalid request body")
	}

	input.Content = validation.TrimAndLimit(input.Content, validation.MaxMessageLength())
	if input.Content == "" {
		return httpx.BadRequest(c, "Content is required")
	}
	if input.ConversationID == "" {
		return httpx.BadRequest(c, "conversationId is required")
	}
	input.SessionID = c.Get("X-Session-ID")

	message, err := h.chatService.SendMessage(userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			return httpx.Forbidden(c, "Not a participant of this conversation")
		case errors.Is(err, service.ErrNotFound):
			return httpx.NotFound(c, "Conversation not found")
		default:
			return httpx.Internal(c)
		}
	}

	return httpx.Created(c, fiber.Map{"message": message.ToResponse()})
}

func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "Unauthorized")
	}

	conversationID := c.Params("conversationId")
	if conversationID == "" {
		return httpx.BadRequest(c, "conversationId is required")
	}

	if err := h.chatService.MarkRead(userID, conversationID); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			return httpx.Forbidden(c, "Not a participant of this conversation")
		case errors.Is(err, service.ErrNotFound):
			return httpx.NotFound(c, "Conversation not found")
		default:
			return httpx.Internal(c)
		}
	}

	return httpx.OK(c, nil)
}
