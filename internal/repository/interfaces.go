package repository

import (
	"time"

	"github.com/halcyonchat/halcyon-backend/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByUsername(username string) (*models.User, error)
	FindByID(id string) (*models.User, error)
	ListAll(excludeID string, limit int) ([]models.User, error)
	Search(query string, excludeID string, limit int) ([]models.User, error)
	UpdateAvatar(userID string, avatar string) error
}

// ConversationRepositoryInterface defines the contract for conversation repository operations
type ConversationRepositoryInterface interface {
	GetOrCreate(userA, userB string) (*models.Conversation, error)
	FindByID(id string) (*models.Conversation, error)
	ListForUser(userID string) ([]ConversationRow, error)
	RowForUser(userID, conversationID string) (*ConversationRow, error)
	PartnerIDs(userID string) ([]string, error)
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Insert(conversationID, senderID, content string, msgType models.MessageType, status models.MessageStatus) (*models.Message, error)
	ListPage(conversationID string, page, limit int) ([]models.Message, bool, error)
	UpdateStatus(messageID string, status models.MessageStatus) error
	MarkConversationRead(conversationID, userID string, readAt time.Time) (int64, error)
}
