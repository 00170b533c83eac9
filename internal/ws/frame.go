package ws

import (
	"encoding/json"
)

// Event types carried in Frame.Type. The call_* and ice_candidate tags plus
// typing are relayed verbatim between peers; new_message and user_status are
// server-originated.
const (
	EventNewMessage   = "new_message"
	EventUserStatus   = "user_status"
	EventTyping       = "typing"
	EventCallOffer    = "call_offer"
	EventCallAnswer   = "call_answer"
	EventIceCandidate = "ice_candidate"
	EventCallReject   = "call_reject"
	EventCallEnd      = "call_end"
	EventCallBusy     = "call_busy"
)

// Frame is the websocket wire envelope. Payload stays raw: the server routes
// signaling frames without interpreting their contents, so SDP/ICE blobs pass
// through byte-for-byte.
type Frame struct {
	Type           string          `json:"type"`
	From           string          `json:"from,omitempty"`
	To             string          `json:"to,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	IsTyping       *bool           `json:"isTyping,omitempty"`
	UserID         string          `json:"userId,omitempty"`
	Online         *bool           `json:"online,omitempty"`
}

var relayableTypes = map[string]struct{}{
	EventCallOffer:    {},
	EventCallAnswer:   {},
	EventIceCandidate: {},
	EventCallReject:   {},
	EventCallEnd:      {},
	EventCallBusy:     {},
	EventTyping:       {},
}

// IsRelayable reports whether a client-supplied frame type is one the server
// forwards. Anything else inbound is ignored.
func IsRelayable(frameType string) bool {
	_, ok := relayableTypes[frameType]
	return ok
}

// DecodeFrame parses an inbound frame envelope.
func DecodeFrame(data []byte) (*Frame, error) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, err
	}
	return &frame, nil
}

// NewMessageFrame wraps a stored message for push delivery.
func NewMessageFrame(conversationID, senderID string, message interface{}) (*Frame, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}
	return &Frame{
		Type:           EventNewMessage,
		From:           senderID,
		ConversationID: conversationID,
		Payload:        payload,
	}, nil
}

// UserStatusFrame announces a presence change.
func UserStatusFrame(userID string, online bool) *Frame {
	return &Frame{
		Type:   EventUserStatus,
		UserID: userID,
		Online: &online,
	}
}
