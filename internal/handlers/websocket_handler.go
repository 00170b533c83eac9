package handlers

import (
	"log"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/halcyonchat/halcyon-backend/internal/service"
	"github.com/halcyonchat/halcyon-backend/internal/ws"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 90 * time.Second
)

// WebSocketHandler is the realtime gateway: it runs one authenticated
// connection from registration to teardown. Auth happens in middleware
// before the upgrade, so a connection reaching this handler already carries
// a verified identity.
type WebSocketHandler struct {
	chatService *service.ChatService
	hub         *ws.Hub
	relay       *ws.Relay
}

func NewWebSocketHandler(chatService *service.ChatService, hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		chatService: chatService,
		hub:         hub,
		relay:       ws.NewRelay(hub),
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		_ = c.Close()
		return
	}

	sess := ws.NewSession(c.Query("session"), userID, c)

	if h.hub.Register(sess) {
		go h.chatService.NotifyPresence(userID, true)
	}

	// Keepalive: a missed pong expires the read deadline, which surfaces in
	// the read loop as a transport close.
	closeChan := make(chan struct{})
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})
	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	go h.pingLoop(sess, closeChan)

	defer func() {
		close(closeChan)
		if h.hub.Deregister(sess) {
			go h.chatService.NotifyPresence(userID, false)
		}
	}()

	// Frames from one connection are processed in arrival order; slow
	// stores or slow recipients never block other connections.
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			log.Printf("user %s session %s read ended: %v", userID, sess.ID(), err)
			break
		}
		h.relay.HandleInbound(userID, data)
	}
}

func (h *WebSocketHandler) pingLoop(sess *ws.WSSession, closeChan chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closeChan:
			return
		case <-ticker.C:
			if err := sess.Ping(); err != nil {
				return
			}
		}
	}
}
