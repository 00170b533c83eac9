package ws

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const writeWait = 10 * time.Second

// Session is one live realtime connection for a user. A user may hold many
// sessions at once (multiple devices); the hub tracks them as a set.
type Session interface {
	ID() string
	UserID() string
	Send(v interface{}) error
}

// WSSession wraps a websocket connection. Writes are serialized by a mutex
// and bounded by a deadline so one wedged consumer cannot stall a broadcast
// loop indefinitely.
type WSSession struct {
	id     string
	userID string
	conn   *websocket.Conn
	mu     sync.Mutex
}

// NewSession wraps conn for userID. When the client did not supply a session
// identity, one is generated; self-notification exclusion on send is
// best-effort and keys off this value.
func NewSession(id, userID string, conn *websocket.Conn) *WSSession {
	if id == "" {
		id = uuid.NewString()
	}
	return &WSSession{
		id:     id,
		userID: userID,
		conn:   conn,
	}
}

func (s *WSSession) ID() string {
	return s.id
}

func (s *WSSession) UserID() string {
	return s.userID
}

func (s *WSSession) Send(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

// Ping sends a control ping used by the keepalive loop.
func (s *WSSession) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait))
}
