package models

import (
	"time"
)

// Conversation is a strictly two-party thread. The participant pair is stored
// in canonical order (UserAID < UserBID) so a lookup by either ordering
// resolves to the same row; the composite unique index makes concurrent
// first-contact inserts collapse to one row.
type Conversation struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserAID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_conversation_pair,priority:1" json:"user_a_id"`
	UserBID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_conversation_pair,priority:2" json:"user_b_id"`

	// Denormalized summary of the newest message, kept in step with every
	// insert so conversation listings avoid a per-row scan.
	LastMessageContent string    `gorm:"type:text" json:"last_message_content"`
	LastMessageAt      time.Time `gorm:"index" json:"last_message_at"`
}

// CanonicalPair returns the two user IDs in storage order.
func CanonicalPair(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}

// HasParticipant reports whether userID is one of the two parties.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// PeerOf returns the other participant's ID.
func (c *Conversation) PeerOf(userID string) string {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

type ConversationResponse struct {
	ID                 string       `json:"id"`
	Participant        UserResponse `json:"participant"`
	LastMessageContent string       `json:"last_message_content"`
	LastMessageAt      *time.Time   `json:"last_message_at"`
	UnreadCount        int64        `json:"unread_count"`
}
