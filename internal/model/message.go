package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types supported by the chat
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
	MessageTypeFile  = "file"
)

// Message represents a chat message in MongoDB.
// Immutable after insert except for IsRead, which only ever flips false -> true.
type Message struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID    string             `json:"senderID" bson:"sender_id"`
	ReceiverID  string             `json:"receiverID" bson:"receiver_id"`
	Content     string             `json:"content" bson:"content"`
	Media       string             `json:"media,omitempty" bson:"media,omitempty"`
	MessageType string             `json:"messageType" bson:"message_type"`
	IsRead      bool               `json:"isRead" bson:"is_read"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}

// ValidType reports whether t is one of the supported message types.
func ValidType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVideo, MessageTypeFile:
		return true
	}
	return false
}
