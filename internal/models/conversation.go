package models

import (
	"time"

	"github.com/lib/pq"
)

// Conversation scopes all messages between two users about one listing.
type Conversation struct {
	ID             string         `db:"id" json:"id"`
	ParticipantIDs pq.StringArray `db:"participant_ids" json:"participant_ids"`
	ListingID      string         `db:"listing_id" json:"listing_id"`
	LastMessage    *string        `db:"last_message" json:"last_message"`
	LastMessageAt  *time.Time     `db:"last_message_at" json:"last_message_at"`
	UnreadCount    UnreadCounts   `db:"unread_count" json:"unread_count"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// HasParticipant reports whether userID takes part in the conversation.
func (c Conversation) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID. For a
// conversation a user holds with themselves it returns userID.
func (c Conversation) OtherParticipant(userID string) string {
	for _, id := range c.ParticipantIDs {
		if id != userID {
			return id
		}
	}
	return userID
}

// ConversationView is a conversation as seen by one participant.
type ConversationView struct {
	ID                      string     `json:"id"`
	OtherUserID             string     `json:"other_user_id"`
	OtherUserName           string     `json:"other_user_name"`
	OtherUserProfilePicture *string    `json:"other_user_profile_picture"`
	ListingID               string     `json:"listing_id"`
	ListingTitle            string     `json:"listing_title"`
	ListingImage            *string    `json:"listing_image"`
	LastMessage             *string    `json:"last_message"`
	LastMessageAt           *time.Time `json:"last_message_at"`
	UnreadCount             int        `json:"unread_count"`
	CreatedAt               time.Time  `json:"created_at"`
}
