package ws

import (
	"log"
)

// Relay routes frames to the addressed user's live sessions without touching
// their payload. Signaling is fire-and-forget: an offline target simply
// misses the frame, and any retry (re-offer, re-dial) is the caller's
// business.
type Relay struct {
	hub *Hub
}

func NewRelay(hub *Hub) *Relay {
	return &Relay{hub: hub}
}

// Relay pushes frame to every session of targetUser. A user on several
// devices receives the frame on all of them; which session answers is the
// client's problem.
func (r *Relay) Relay(targetUser string, frame *Frame) {
	sessions := r.hub.SessionsFor(targetUser)
	if len(sessions) == 0 {
		return
	}
	for _, s := range sessions {
		if err := s.Send(frame); err != nil {
			log.Printf("relay %s to user %s session %s failed: %v", frame.Type, targetUser, s.ID(), err)
		}
	}
}

// HandleInbound processes one raw frame read from senderID's connection.
// Malformed and unknown frames are logged and dropped without closing the
// connection: a single bad frame must not kill a session that may have a
// call in progress. The sender identity is always forced to the
// authenticated user; a client-asserted "from" is never trusted.
func (r *Relay) HandleInbound(senderID string, data []byte) {
	frame, err := DecodeFrame(data)
	if err != nil {
		log.Printf("ignoring malformed frame from user %s: %v", senderID, err)
		return
	}
	if !IsRelayable(frame.Type) {
		log.Printf("ignoring frame with unknown type %q from user %s", frame.Type, senderID)
		return
	}
	if frame.To == "" {
		log.Printf("ignoring %s frame without target from user %s", frame.Type, senderID)
		return
	}

	frame.From = senderID
	r.Relay(frame.To, frame)
}
