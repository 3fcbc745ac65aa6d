package event

import "time"

// JoinPayload announces the identity behind a freshly opened connection.
type JoinPayload struct {
	UserID string `json:"userId"`
}

// SendMessagePayload carries an outgoing chat message.
type SendMessagePayload struct {
	SenderID    string `json:"senderID"`
	ReceiverID  string `json:"receiverID"`
	Content     string `json:"content"`
	Media       string `json:"media,omitempty"`
	MessageType string `json:"messageType,omitempty"`
}

// TypingPayload is shared by typing and stop-typing, both directions carry
// only the sender towards the receiver.
type TypingPayload struct {
	SenderID   string `json:"senderID"`
	ReceiverID string `json:"receiverID,omitempty"`
}

// MarkReadPayload asks the server to mark every message from From to To as
// read. To is the reader issuing the request.
type MarkReadPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ReceiveMessagePayload is the unicast delivery to the receiving party.
// The sender never gets an echo.
type ReceiveMessagePayload struct {
	SenderID    string    `json:"senderID"`
	Content     string    `json:"content"`
	Media       string    `json:"media,omitempty"`
	MessageType string    `json:"messageType"`
	Timestamp   time.Time `json:"timestamp"`
}

// OnlineUser is one entry of the online-users broadcast.
type OnlineUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

// MessagesSeenPayload tells the original sender their messages were read.
type MessagesSeenPayload struct {
	By string `json:"by"`
}
