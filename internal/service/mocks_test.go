package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/halcyonchat/halcyon-backend/internal/models"
	"github.com/halcyonchat/halcyon-backend/internal/repository"
)

// In-memory stand-ins for the repositories and the hub, shared by the service
// tests in this package.

type mockUserRepo struct {
	users       map[string]*models.User
	searchCalls int
	findErr     error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) Create(user *models.User) error {
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return repository.ErrConflict
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindByUsername(username string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) FindByID(id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) ListAll(excludeID string, limit int) ([]models.User, error) {
	var out []models.User
	for _, user := range m.users {
		if user.ID == excludeID {
			continue
		}
		out = append(out, *user)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *mockUserRepo) Search(query, excludeID string, limit int) ([]models.User, error) {
	m.searchCalls++
	q := strings.ToLower(query)
	var out []models.User
	for _, user := range m.users {
		if user.ID == excludeID {
			continue
		}
		if strings.Contains(user.Username, q) || strings.Contains(strings.ToLower(user.DisplayName), q) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (m *mockUserRepo) UpdateAvatar(userID, avatar string) error {
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.Avatar = avatar
	return nil
}

type mockConversationRepo struct {
	convs  map[string]*models.Conversation
	byPair map[string]string
	rows   map[string]*repository.ConversationRow
	nextID int
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{
		convs:  make(map[string]*models.Conversation),
		byPair: make(map[string]string),
		rows:   make(map[string]*repository.ConversationRow),
	}
}

func (m *mockConversationRepo) add(conv *models.Conversation) {
	m.convs[conv.ID] = conv
	m.byPair[conv.UserAID+"|"+conv.UserBID] = conv.ID
}

func (m *mockConversationRepo) GetOrCreate(userA, userB string) (*models.Conversation, error) {
	a, b := models.CanonicalPair(userA, userB)
	if id, ok := m.byPair[a+"|"+b]; ok {
		return m.convs[id], nil
	}
	m.nextID++
	conv := &models.Conversation{
		ID:      fmt.Sprintf("conv-%d", m.nextID),
		UserAID: a,
		UserBID: b,
	}
	m.add(conv)
	return conv, nil
}

func (m *mockConversationRepo) FindByID(id string) (*models.Conversation, error) {
	if conv, ok := m.convs[id]; ok {
		return conv, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockConversationRepo) ListForUser(userID string) ([]repository.ConversationRow, error) {
	var out []repository.ConversationRow
	for id, conv := range m.convs {
		if !conv.HasParticipant(userID) {
			continue
		}
		row, err := m.RowForUser(userID, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, nil
}

func (m *mockConversationRepo) RowForUser(userID, conversationID string) (*repository.ConversationRow, error) {
	conv, ok := m.convs[conversationID]
	if !ok || !conv.HasParticipant(userID) {
		return nil, repository.ErrNotFound
	}
	if row, ok := m.rows[conversationID+"|"+userID]; ok {
		return row, nil
	}
	return &repository.ConversationRow{
		ID:     conversationID,
		PeerID: conv.PeerOf(userID),
	}, nil
}

func (m *mockConversationRepo) PartnerIDs(userID string) ([]string, error) {
	var out []string
	for _, conv := range m.convs {
		if conv.HasParticipant(userID) {
			out = append(out, conv.PeerOf(userID))
		}
	}
	return out, nil
}

type mockMessageRepo struct {
	messages   []*models.Message
	cursors    map[string]time.Time
	seq        int
	failInsert bool
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{cursors: make(map[string]time.Time)}
}

func (m *mockMessageRepo) Insert(conversationID, senderID, content string, msgType models.MessageType, status models.MessageStatus) (*models.Message, error) {
	if m.failInsert {
		return nil, errors.New("insert failed")
	}
	m.seq++
	msg := &models.Message{
		ID:             fmt.Sprintf("msg-%d", m.seq),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		MessageType:    msgType,
		Status:         status,
		CreatedAt:      time.Unix(1700000000+int64(m.seq), 0),
	}
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *mockMessageRepo) ListPage(conversationID string, page, limit int) ([]models.Message, bool, error) {
	var all []models.Message
	// Stored ascending; pages are served newest first.
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].ConversationID == conversationID {
			all = append(all, *m.messages[i])
		}
	}
	offset := (page - 1) * limit
	if offset >= len(all) {
		return nil, false, nil
	}
	end := offset + limit
	hasMore := end < len(all)
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], hasMore, nil
}

func (m *mockMessageRepo) UpdateStatus(messageID string, status models.MessageStatus) error {
	for _, msg := range m.messages {
		if msg.ID == messageID {
			msg.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockMessageRepo) MarkConversationRead(conversationID, userID string, readAt time.Time) (int64, error) {
	m.cursors[conversationID+"|"+userID] = readAt
	var cleared int64
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID && msg.SenderID != userID && msg.Status != models.StatusRead {
			msg.Status = models.StatusRead
			cleared++
		}
	}
	return cleared, nil
}

type push struct {
	userID   string
	exceptID string
	frame    interface{}
}

type fakeBroadcaster struct {
	online map[string]bool
	pushes []push
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{online: make(map[string]bool)}
}

func (f *fakeBroadcaster) IsOnline(userID string) bool {
	return f.online[userID]
}

func (f *fakeBroadcaster) SendToUser(userID string, v interface{}) {
	f.SendToUserExcept(userID, "", v)
}

func (f *fakeBroadcaster) SendToUserExcept(userID, exceptID string, v interface{}) {
	f.pushes = append(f.pushes, push{userID: userID, exceptID: exceptID, frame: v})
}

func (f *fakeBroadcaster) pushesTo(userID string) []push {
	var out []push
	for _, p := range f.pushes {
		if p.userID == userID {
			out = append(out, p)
		}
	}
	return out
}
