package ws

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestIsRelayable(t *testing.T) {
	tests := []struct {
		frameType string
		want      bool
	}{
		{EventCallOffer, true},
		{EventCallAnswer, true},
		{EventIceCandidate, true},
		{EventCallReject, true},
		{EventCallEnd, true},
		{EventCallBusy, true},
		{EventTyping, true},
		{EventNewMessage, false},
		{EventUserStatus, false},
		{"made_up_event", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsRelayable(tt.frameType); got != tt.want {
			t.Errorf("IsRelayable(%q) = %v, want %v", tt.frameType, got, tt.want)
		}
	}
}

func TestDecodeFrame(t *testing.T) {
	raw := []byte(`{"type":"call_offer","to":"bob-id","payload":{"sdp":"v=0...","type":"offer"}}`)

	frame, err := DecodeFrame(raw)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if frame.Type != EventCallOffer {
		t.Errorf("Type = %q, want %q", frame.Type, EventCallOffer)
	}
	if frame.To != "bob-id" {
		t.Errorf("To = %q, want bob-id", frame.To)
	}
	want := []byte(`{"sdp":"v=0...","type":"offer"}`)
	if !bytes.Equal(frame.Payload, want) {
		t.Errorf("Payload = %s, want %s", frame.Payload, want)
	}
}

func TestDecodeFrameMalformed(t *testing.T) {
	for _, raw := range []string{`{"type":`, `not json at all`, `[1,2,3`} {
		if _, err := DecodeFrame([]byte(raw)); err == nil {
			t.Errorf("DecodeFrame(%q) should fail", raw)
		}
	}
}

func TestNewMessageFrame(t *testing.T) {
	msg := map[string]string{"id": "msg-1", "content": "hi"}
	frame, err := NewMessageFrame("conv-1", "alice-id", msg)
	if err != nil {
		t.Fatalf("NewMessageFrame failed: %v", err)
	}
	if frame.Type != EventNewMessage {
		t.Errorf("Type = %q, want %q", frame.Type, EventNewMessage)
	}
	if frame.From != "alice-id" || frame.ConversationID != "conv-1" {
		t.Errorf("envelope mismatch: %+v", frame)
	}

	var decoded map[string]string
	if err := json.Unmarshal(frame.Payload, &decoded); err != nil {
		t.Fatalf("payload did not round-trip: %v", err)
	}
	if decoded["content"] != "hi" {
		t.Errorf("payload content = %q, want hi", decoded["content"])
	}
}

func TestUserStatusFrame(t *testing.T) {
	frame := UserStatusFrame("alice-id", true)
	if frame.Type != EventUserStatus || frame.UserID != "alice-id" {
		t.Errorf("envelope mismatch: %+v", frame)
	}
	if frame.Online == nil || !*frame.Online {
		t.Error("Online flag should be set to true")
	}

	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["online"] != true {
		t.Errorf("serialized online = %v, want true", decoded["online"])
	}
}
