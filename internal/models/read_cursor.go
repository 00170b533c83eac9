package models

import (
	"time"
)

// ReadCursor marks the point up to which a user has seen a conversation.
// Unread counts are messages from the other participant newer than this.
type ReadCursor struct {
	ConversationID string    `gorm:"type:varchar(36);primaryKey" json:"conversation_id"`
	UserID         string    `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	LastReadAt     time.Time `gorm:"not null" json:"last_read_at"`
}
