package realtime

import "campusmarket/internal/models"

const (
	TableConversations = "conversations"
	TableMessages      = "messages"
)

type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
)

// ChangeEvent is one row-level insert/update notification. Exactly one of
// Message/Conversation is set, matching Table.
type ChangeEvent struct {
	Table          string               `json:"table"`
	Kind           Kind                 `json:"kind"`
	ConversationID uint                 `json:"conversation_id"`
	Message        *models.Message      `json:"message,omitempty"`
	Conversation   *models.Conversation `json:"conversation,omitempty"`
}

func MessageInserted(message *models.Message) ChangeEvent {
	return ChangeEvent{
		Table:          TableMessages,
		Kind:           KindInsert,
		ConversationID: message.ConversationID,
		Message:        message,
	}
}

func MessageUpdated(message *models.Message) ChangeEvent {
	return ChangeEvent{
		Table:          TableMessages,
		Kind:           KindUpdate,
		ConversationID: message.ConversationID,
		Message:        message,
	}
}

func ConversationInserted(conversation *models.Conversation) ChangeEvent {
	return ChangeEvent{
		Table:          TableConversations,
		Kind:           KindInsert,
		ConversationID: conversation.ID,
		Conversation:   conversation,
	}
}

func ConversationUpdated(conversation *models.Conversation) ChangeEvent {
	return ChangeEvent{
		Table:          TableConversations,
		Kind:           KindUpdate,
		ConversationID: conversation.ID,
		Conversation:   conversation,
	}
}
