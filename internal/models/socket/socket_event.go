package socket

import (
	"encoding/json"
)

type SocketEvent struct {
	Event          string          `json:"event"`
	Payload        json.RawMessage `json:"payload"`
	ConversationID uint            `json:"conversation_id"`
}

type SendMessagePayload struct {
	Content     string   `json:"content"`
	Attachments []string `json:"attachments"`
	Link        *string  `json:"link"`
}
