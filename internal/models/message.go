package models

import "time"

// Message is a direct message between two users.
type Message struct {
	ID         string    `db:"id" json:"id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	ReceiverID string    `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content" json:"content"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// MessageDetail nests sender and receiver summaries.
type MessageDetail struct {
	Message
	Sender   UserSummary `db:"sender" json:"sender"`
	Receiver UserSummary `db:"receiver" json:"receiver"`
}

// MessageFilter filters message listings.
type MessageFilter struct {
	ListQuery
	Box  string // inbox, sent or empty for both
	Read *bool
}
