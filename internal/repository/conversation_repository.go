package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/halcyonchat/halcyon-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetOrCreate resolves the conversation for an unordered user pair, creating
// it on first contact. Concurrent first-contact from both sides races on the
// canonical-pair unique index; the loser's insert is a no-op and it re-reads
// the winner's row.
func (r *ConversationRepository) GetOrCreate(userA, userB string) (*models.Conversation, error) {
	a, b := models.CanonicalPair(userA, userB)

	var conv models.Conversation
	err := r.db.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = models.Conversation{
		ID:      uuid.NewString(),
		UserAID: a,
		UserBID: b,
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&conv)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		err = r.db.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&conv).Error
		if err != nil {
			return nil, err
		}
	}
	return &conv, nil
}

func (r *ConversationRepository) FindByID(id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.Where("id = ?", id).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &conv, err
}

// PartnerIDs returns the other participant of every conversation the user is
// in. Presence-changed broadcasts fan out to exactly this set.
func (r *ConversationRepository) PartnerIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Raw(`
SELECT CASE WHEN user_a_id = ? THEN user_b_id ELSE user_a_id END
FROM conversations
WHERE user_a_id = ? OR user_b_id = ?
`, userID, userID, userID).Scan(&ids).Error
	return ids, err
}

// ConversationRow is a denormalized listing row: peer profile, last-message
// summary and the unread count computed against the caller's read cursor.
// Deliberately not the full models.User shape so the password hash never
// travels through this query.
type ConversationRow struct {
	ID              string    `gorm:"column:id" msgpack:"id"`
	PeerID          string    `gorm:"column:peer_id" msgpack:"peer_id"`
	PeerUsername    string    `gorm:"column:peer_username" msgpack:"peer_username"`
	PeerDisplayName string    `gorm:"column:peer_display_name" msgpack:"peer_display_name"`
	PeerAvatar      string    `gorm:"column:peer_avatar" msgpack:"peer_avatar"`
	LastContent     string    `gorm:"column:last_message_content" msgpack:"last_content"`
	LastMessageAt   time.Time `gorm:"column:last_message_at" msgpack:"last_message_at"`
	UnreadCount     int64     `gorm:"column:unread_count" msgpack:"unread_count"`
}

const conversationRowSelect = `
SELECT
	c.id,
	peer.id AS peer_id,
	peer.username AS peer_username,
	peer.display_name AS peer_display_name,
	peer.avatar AS peer_avatar,
	c.last_message_content,
	c.last_message_at,
	(
		SELECT COUNT(*)
		FROM messages m
		WHERE m.conversation_id = c.id
		  AND m.sender_id <> ?
		  AND (rc.last_read_at IS NULL OR m.created_at > rc.last_read_at)
	) AS unread_count
FROM conversations c
JOIN users peer ON peer.id = CASE WHEN c.user_a_id = ? THEN c.user_b_id ELSE c.user_a_id END
LEFT JOIN read_cursors rc ON rc.conversation_id = c.id AND rc.user_id = ?
WHERE (c.user_a_id = ? OR c.user_b_id = ?)
`

func (r *ConversationRepository) ListForUser(userID string) ([]ConversationRow, error) {
	query := strings.TrimSpace(conversationRowSelect + `
ORDER BY c.last_message_at DESC, c.id DESC
`)

	var rows []ConversationRow
	err := r.db.Raw(query, userID, userID, userID, userID, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RowForUser is the single-conversation variant of ListForUser, used when a
// freshly resolved conversation is returned to the caller.
func (r *ConversationRepository) RowForUser(userID, conversationID string) (*ConversationRow, error) {
	query := strings.TrimSpace(conversationRowSelect + `
AND c.id = ?
`)

	var row ConversationRow
	res := r.db.Raw(query, userID, userID, userID, userID, userID, conversationID).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &row, nil
}
