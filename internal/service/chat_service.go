package service

import (
	"errors"
	"log"
	"time"

	"github.com/halcyonchat/halcyon-backend/internal/cache"
	"github.com/halcyonchat/halcyon-backend/internal/models"
	"github.com/halcyonchat/halcyon-backend/internal/repository"
	"github.com/halcyonchat/halcyon-backend/internal/ws"
)

// Broadcaster pushes realtime events to a user's live sessions. The hub
// satisfies it; tests substitute a fake.
type Broadcaster interface {
	IsOnline(userID string) bool
	SendToUser(userID string, v interface{})
	SendToUserExcept(userID, exceptSessionID string, v interface{})
}

// ChatService orchestrates the durable store and the presence registry for
// send/list/read operations and their broadcast side effects.
type ChatService struct {
	conversationRepo repository.ConversationRepositoryInterface
	messageRepo      repository.MessageRepositoryInterface
	userRepo         repository.UserRepositoryInterface
	broadcaster      Broadcaster
	convCache        *cache.ConversationCache
}

func NewChatService(
	conversationRepo repository.ConversationRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	broadcaster Broadcaster,
	convCache *cache.ConversationCache,
) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		broadcaster:      broadcaster,
		convCache:        convCache,
	}
}

type SendMessageInput struct {
	ConversationID string             `json:"conversationId"`
	Content        string             `json:"content"`
	MessageType    models.MessageType `json:"type"`

	// SessionID identifies the sender's originating session when the client
	// supplies one, so the echo to the sender's other sessions can skip it.
	// Best-effort only.
	SessionID string `json:"-"`
}

// SendMessage durably stores the message, then pushes it to the recipient's
// live sessions and to the sender's other sessions. The message counts as
// sent once stored; a failed push is logged by the hub and never surfaced.
func (s *ChatService) SendMessage(senderID string, input SendMessageInput) (*models.Message, error) {
	conv, err := s.conversationRepo.FindByID(input.ConversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, ErrForbidden
	}

	msgType := input.MessageType
	if msgType == "" {
		msgType = models.TextMessage
	}

	msg, err := s.messageRepo.Insert(conv.ID, senderID, input.Content, msgType, models.StatusSent)
	if err != nil {
		return nil, err
	}

	peerID := conv.PeerOf(senderID)
	_ = s.convCache.InvalidateList(conv.UserAID)
	_ = s.convCache.InvalidateList(conv.UserBID)

	// A live recipient session means the push will land; record that as
	// delivered, best-effort.
	if s.broadcaster.IsOnline(peerID) {
		if err := s.messageRepo.UpdateStatus(msg.ID, models.StatusDelivered); err == nil {
			msg.Status = models.StatusDelivered
		} else {
			log.Printf("mark message %s delivered failed: %v", msg.ID, err)
		}
	}

	frame, err := ws.NewMessageFrame(conv.ID, senderID, msg.ToResponse())
	if err != nil {
		log.Printf("encode new_message frame for %s failed: %v", msg.ID, err)
		return msg, nil
	}
	s.broadcaster.SendToUser(peerID, frame)
	s.broadcaster.SendToUserExcept(senderID, input.SessionID, frame)

	return msg, nil
}

// GetOrCreateConversation resolves the conversation between the caller and
// participantID, creating it on first contact.
func (s *ChatService) GetOrCreateConversation(userID, participantID string) (*models.ConversationResponse, error) {
	if _, err := s.userRepo.FindByID(participantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	conv, err := s.conversationRepo.GetOrCreate(userID, participantID)
	if err != nil {
		return nil, err
	}

	row, err := s.conversationRepo.RowForUser(userID, conv.ID)
	if err != nil {
		return nil, err
	}
	_ = s.convCache.InvalidateList(userID)

	resp := s.rowToResponse(row)
	return &resp, nil
}

func (s *ChatService) ListConversations(userID string) ([]models.ConversationResponse, error) {
	rows, ok := s.convCache.GetList(userID)
	if !ok {
		var err error
		rows, err = s.conversationRepo.ListForUser(userID)
		if err != nil {
			return nil, err
		}
		if err := s.convCache.SetList(userID, rows); err != nil {
			log.Printf("cache conversation list for user %s failed: %v", userID, err)
		}
	}

	responses := make([]models.ConversationResponse, len(rows))
	for i := range rows {
		responses[i] = s.rowToResponse(&rows[i])
	}
	return responses, nil
}

type MessagePage struct {
	Messages []models.MessageResponse `json:"messages"`
	HasMore  bool                     `json:"hasMore"`
	Page     int                      `json:"page"`
}

func (s *ChatService) ListMessages(userID, conversationID string, page, limit int) (*MessagePage, error) {
	conv, err := s.conversationRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrForbidden
	}

	if page < 1 {
		page = 1
	}
	messages, hasMore, err := s.messageRepo.ListPage(conversationID, page, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]models.MessageResponse, len(messages))
	for i := range messages {
		responses[i] = messages[i].ToResponse()
	}
	return &MessagePage{
		Messages: responses,
		HasMore:  hasMore,
		Page:     page,
	}, nil
}

// MarkRead advances the caller's read cursor to now and flips the other
// participant's messages to read.
func (s *ChatService) MarkRead(userID, conversationID string) error {
	conv, err := s.conversationRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !conv.HasParticipant(userID) {
		return ErrForbidden
	}

	if _, err := s.messageRepo.MarkConversationRead(conversationID, userID, time.Now()); err != nil {
		return err
	}
	_ = s.convCache.InvalidateList(userID)
	return nil
}

// NotifyPresence broadcasts a user_status event to the user's conversation
// partners. Fan-out is bounded by the partner set, never the whole user base.
func (s *ChatService) NotifyPresence(userID string, online bool) {
	partners, err := s.conversationRepo.PartnerIDs(userID)
	if err != nil {
		log.Printf("load partners for presence broadcast of user %s failed: %v", userID, err)
		return
	}

	frame := ws.UserStatusFrame(userID, online)
	for _, partnerID := range partners {
		s.broadcaster.SendToUser(partnerID, frame)
	}
}

func (s *ChatService) rowToResponse(row *repository.ConversationRow) models.ConversationResponse {
	resp := models.ConversationResponse{
		ID: row.ID,
		Participant: models.UserResponse{
			ID:          row.PeerID,
			Username:    row.PeerUsername,
			DisplayName: row.PeerDisplayName,
			Avatar:      row.PeerAvatar,
			IsOnline:    s.broadcaster.IsOnline(row.PeerID),
		},
		LastMessageContent: row.LastContent,
		UnreadCount:        row.UnreadCount,
	}
	if !row.LastMessageAt.IsZero() {
		t := row.LastMessageAt
		resp.LastMessageAt = &t
	}
	return resp
}
