package ws

import (
	"log"
	"sync"
)

// Hub is the process-wide presence registry: user ID to the set of live
// sessions. It is rebuilt empty on restart, so every user starts offline
// until they reconnect. All mutation goes through Register/Deregister; reads
// hand out snapshots so callers never iterate the map concurrently with
// connect/disconnect events.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[Session]struct{}
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]map[Session]struct{}),
	}
}

// Register adds a session to the user's set. Returns true when the user came
// online with this session (empty -> non-empty transition); the caller fires
// the presence-changed broadcast on that signal.
func (h *Hub) Register(s Session) bool {
	h.mu.Lock()
	set, exists := h.sessions[s.UserID()]
	if !exists {
		set = make(map[Session]struct{})
		h.sessions[s.UserID()] = set
	}
	set[s] = struct{}{}
	total := len(h.sessions)
	h.mu.Unlock()

	log.Printf("user %s session %s connected (online users: %d)", s.UserID(), s.ID(), total)
	return !exists
}

// Deregister removes a session. Returns true when this was the user's last
// session (the user went offline).
func (h *Hub) Deregister(s Session) bool {
	h.mu.Lock()
	offline := false
	if set, exists := h.sessions[s.UserID()]; exists {
		delete(set, s)
		if len(set) == 0 {
			delete(h.sessions, s.UserID())
			offline = true
		}
	}
	total := len(h.sessions)
	h.mu.Unlock()

	log.Printf("user %s session %s disconnected (online users: %d)", s.UserID(), s.ID(), total)
	return offline
}

// SessionsFor returns a snapshot of the user's live sessions, safe to iterate
// without holding the registry lock during sends.
func (h *Hub) SessionsFor(userID string) []Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set, exists := h.sessions[userID]
	if !exists {
		return nil
	}
	out := make([]Session, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.sessions[userID]
	return exists
}

// SendToUser pushes v to every live session of the user. Write failures are
// logged, not returned: delivery confirmation is store durability, not
// live-push success.
func (h *Hub) SendToUser(userID string, v interface{}) {
	h.SendToUserExcept(userID, "", v)
}

// SendToUserExcept is SendToUser minus the session identified by exceptID,
// used to skip the session that originated an action.
func (h *Hub) SendToUserExcept(userID, exceptID string, v interface{}) {
	for _, s := range h.SessionsFor(userID) {
		if exceptID != "" && s.ID() == exceptID {
			continue
		}
		if err := s.Send(v); err != nil {
			log.Printf("push to user %s session %s failed: %v", userID, s.ID(), err)
		}
	}
}
