package event

import "encoding/json"

// Client to server events
const (
	EventJoin        = "join"
	EventSendMessage = "send-message"
	EventTyping      = "typing"
	EventStopTyping  = "stop-typing"
	EventMarkRead    = "markMessagesAsRead"
)

// Server to client events
const (
	EventOnlineUsers    = "online-users"
	EventReceiveMessage = "receive-message"
	EventMessagesSeen   = "messages-seen"
)

// WsEvent is the envelope for every frame exchanged over the socket.
type WsEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// New wraps payload into a WsEvent envelope.
func New(name string, payload any) (WsEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return WsEvent{}, err
	}
	return WsEvent{Event: name, Payload: raw}, nil
}
