package testutil

import (
	"time"

	"github.com/halcyonchat/halcyon-backend/internal/models"
)

// CreateTestUser builds a user fixture with sensible defaults.
func CreateTestUser(id, username string) *models.User {
	if id == "" {
		id = "user-1"
	}
	if username == "" {
		username = "testuser"
	}
	return &models.User{
		ID:           id,
		Username:     username,
		DisplayName:  "Test User",
		PasswordHash: "hashed_password_123",
		Avatar:       "/media/avatars/test.png",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateTestConversation builds a conversation fixture with the pair already
// in canonical order.
func CreateTestConversation(id, userA, userB string) *models.Conversation {
	a, b := models.CanonicalPair(userA, userB)
	return &models.Conversation{
		ID:        id,
		UserAID:   a,
		UserBID:   b,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CreateTestMessage builds a message fixture with default values.
func CreateTestMessage(id, conversationID, senderID, content string) *models.Message {
	if content == "" {
		content = "Test message"
	}
	return &models.Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		MessageType:    models.TextMessage,
		Status:         models.StatusSent,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}
