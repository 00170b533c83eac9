package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/halcyonchat/halcyon-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert appends a message and refreshes the conversation's last-message
// summary in one transaction. The conversation row is locked so timestamps
// within a conversation never move backwards even under concurrent sends;
// retrieval paginates by created_at and relies on that.
func (r *MessageRepository) Insert(conversationID, senderID, content string, msgType models.MessageType, status models.MessageStatus) (*models.Message, error) {
	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		MessageType:    msgType,
		Status:         status,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", conversationID).
			First(&conv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		ts := time.Now()
		if ts.Before(conv.LastMessageAt) {
			ts = conv.LastMessageAt
		}
		msg.CreatedAt = ts
		msg.UpdatedAt = ts

		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Updates(map[string]interface{}{
				"last_message_content": content,
				"last_message_at":      ts,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListPage returns one page of messages newest-first. One extra row is
// fetched to decide hasMore without a second count query.
func (r *MessageRepository) ListPage(conversationID string, page, limit int) ([]models.Message, bool, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit + 1).
		Find(&messages).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}
	return messages, hasMore, nil
}

func (r *MessageRepository) UpdateStatus(messageID string, status models.MessageStatus) error {
	res := r.db.Model(&models.Message{}).Where("id = ?", messageID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkConversationRead upserts the caller's read cursor and flips every
// message from the other participant to read, in one transaction. The two
// writes are deliberately one operation: that is the contract of "mark as
// read" at the API surface. Returns the number of messages flipped.
func (r *MessageRepository) MarkConversationRead(conversationID, userID string, readAt time.Time) (int64, error) {
	var cleared int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		cursor := models.ReadCursor{
			ConversationID: conversationID,
			UserID:         userID,
			LastReadAt:     readAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_read_at": readAt,
			}),
		}).Create(&cursor).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND status <> ?",
				conversationID, userID, models.StatusRead).
			Update("status", models.StatusRead)
		if res.Error != nil {
			return res.Error
		}
		cleared = res.RowsAffected
		return nil
	})
	return cleared, err
}
