package models

import "time"

// ConversationView is a conversation row enriched with the derived display
// data the sidebar needs: counterpart profile, most recent message and the
// viewer's unread count.
type ConversationView struct {
	ID             uint          `json:"id"`
	ListingID      *uint         `json:"listing_id"`
	Counterpart    *UserResponse `json:"counterpart"`
	LastMessage    *Message      `json:"last_message"`
	Unread         int           `json:"unread"`
	LastActivityAt *time.Time    `json:"last_activity_at"`
	CreatedAt      time.Time     `json:"created_at"`
}
