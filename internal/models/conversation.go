package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a durable channel between exactly two users, optionally
// scoped to one listing. The pair is stored canonically: ParticipantAID is
// always the smaller user id, so (A, B) and (B, A) map to the same row.
// The composite unique index closes the concurrent find-or-create race for
// listing-scoped pairs; Postgres treats NULL listing ids as distinct, so the
// lookup-before-insert check stays load-bearing for the unscoped case.
type Conversation struct {
	gorm.Model
	ParticipantAID uint       `gorm:"not null;uniqueIndex:idx_conversation_identity" json:"participant_a_id"`
	ParticipantBID uint       `gorm:"not null;uniqueIndex:idx_conversation_identity" json:"participant_b_id"`
	ListingID      *uint      `gorm:"uniqueIndex:idx_conversation_identity" json:"listing_id"`
	LastActivityAt *time.Time `json:"last_activity_at"`
}

func (conversation *Conversation) HasParticipant(userID uint) bool {
	return conversation.ParticipantAID == userID || conversation.ParticipantBID == userID
}

// CounterpartOf returns the participant who is not the viewer.
func (conversation *Conversation) CounterpartOf(viewerID uint) uint {
	if conversation.ParticipantAID == viewerID {
		return conversation.ParticipantBID
	}
	return conversation.ParticipantAID
}

func (conversation *Conversation) ToConversationView(counterpart *UserResponse, lastMessage *Message, unread int) ConversationView {
	return ConversationView{
		ID:             conversation.ID,
		ListingID:      conversation.ListingID,
		Counterpart:    counterpart,
		LastMessage:    lastMessage,
		Unread:         unread,
		LastActivityAt: conversation.LastActivityAt,
		CreatedAt:      conversation.CreatedAt,
	}
}
