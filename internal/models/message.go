package models

import (
	"time"
)

type MessageType string

const (
	TextMessage    MessageType = "text"
	ImageMessage   MessageType = "image"
	FileMessage    MessageType = "file"
	CallLogMessage MessageType = "call_log"
)

type MessageStatus string

const (
	StatusSending   MessageStatus = "sending"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
	StatusFailed    MessageStatus = "failed"
)

type Message struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_message_conversation_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ConversationID string `gorm:"type:varchar(36);not null;index:idx_message_conversation_created,priority:1" json:"conversation_id"`
	SenderID       string `gorm:"type:varchar(36);not null;index" json:"sender_id"`

	Content     string        `gorm:"type:text;not null" json:"content"`
	MessageType MessageType   `gorm:"type:varchar(20);default:'text'" json:"message_type"`
	Status      MessageStatus `gorm:"type:varchar(20);default:'sent';index" json:"status"`
}

type MessageResponse struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversation_id"`
	SenderID       string        `json:"sender_id"`
	Content        string        `json:"content"`
	MessageType    MessageType   `json:"message_type"`
	Status         MessageStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		MessageType:    m.MessageType,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
	}
}
