package models

import (
	"time"

	"gorm.io/gorm"
)

// Message belongs exclusively to one conversation. ReadAt is nil until the
// counterpart views it; that flip is the only mutation a message ever sees.
type Message struct {
	gorm.Model
	ConversationID uint       `gorm:"index;not null" json:"conversation_id"`
	SenderID       uint       `gorm:"not null" json:"sender_id"`
	Content        string     `json:"content"`
	Attachments    StringList `gorm:"type:jsonb" json:"attachments"`
	Link           *string    `json:"link"`
	ReadAt         *time.Time `json:"read_at"`
}

func (message *Message) IsRead() bool {
	return message.ReadAt != nil
}
