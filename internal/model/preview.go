package model

// ConversationPreview is the derived inbox row for one conversation partner.
// It is computed fresh on every query and never stored.
type ConversationPreview struct {
	Friend      User    `json:"friend"`
	LastMessage Message `json:"lastMessage"`
	UnreadCount int     `json:"unreadCount"`
}
