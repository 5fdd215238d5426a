package models

import "time"

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageOffer MessageType = "offer"
)

// Valid reports whether t is a known message kind.
func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageOffer:
		return true
	}
	return false
}

// Message is an entry in a conversation ledger. Only IsRead ever changes
// after creation, and only from false to true.
type Message struct {
	ID             string      `db:"id" json:"id"`
	ConversationID string      `db:"conversation_id" json:"conversation_id"`
	SenderID       string      `db:"sender_id" json:"sender_id"`
	ReceiverID     string      `db:"receiver_id" json:"receiver_id"`
	ListingID      string      `db:"listing_id" json:"listing_id"`
	MessageType    MessageType `db:"message_type" json:"message_type"`
	Content        string      `db:"content" json:"content"`
	OfferAmount    *int64      `db:"offer_amount" json:"offer_amount"`
	IsRead         bool        `db:"is_read" json:"is_read"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// MessageView is a message enriched with participant and listing display data.
type MessageView struct {
	ID                   string      `json:"id"`
	SenderID             string      `json:"sender_id"`
	SenderName           string      `json:"sender_name"`
	SenderProfilePicture *string     `json:"sender_profile_picture"`
	ReceiverID           string      `json:"receiver_id"`
	ReceiverName         string      `json:"receiver_name"`
	ListingID            string      `json:"listing_id"`
	ListingTitle         string      `json:"listing_title"`
	MessageType          MessageType `json:"message_type"`
	Content              string      `json:"content"`
	OfferAmount          *int64      `json:"offer_amount"`
	IsRead               bool        `json:"is_read"`
	CreatedAt            time.Time   `json:"created_at"`
}

const EventNewMessage = "new_message"

// LiveEvent is pushed to a user's live connections.
type LiveEvent struct {
	Type       string   `json:"type"`
	Message    *Message `json:"message,omitempty"`
	SenderName string   `json:"sender_name,omitempty"`
}
