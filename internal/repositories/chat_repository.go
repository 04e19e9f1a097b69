package repositories

import (
	"errors"
	"time"

	"campusmarket/internal/models"

	"gorm.io/gorm"
)

// ChatRepository is the storage contract the messaging core depends on. All
// lookups are scoped by explicit viewer/conversation ids; nothing here reads
// ambient session state.
type ChatRepository interface {
	FindConversation(participantA, participantB uint, listingID *uint) (*models.Conversation, error)
	CreateConversation(conversation *models.Conversation) error
	GetConversationByID(conversationID uint) (*models.Conversation, error)
	GetUserConversations(userID uint) ([]models.Conversation, error)
	ConversationIDs(userID uint) ([]uint, error)
	IsMember(conversationID, userID uint) (bool, error)
	SaveMessage(message *models.Message) error
	GetRecentMessages(conversationID uint, limit int) ([]models.Message, error)
	GetLastMessage(conversationID uint) (*models.Message, error)
	CountUnread(conversationID, viewerID uint) (int, error)
	CountUnreadIn(conversationIDs []uint, viewerID uint) (int, error)
	MarkConversationRead(conversationID, readerID uint, at time.Time) ([]models.Message, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (chr *chatRepository) FindConversation(participantA, participantB uint, listingID *uint) (*models.Conversation, error) {
	query := chr.db.
		Where("participant_a_id = ? AND participant_b_id = ?", participantA, participantB)
	// nil context must match only nil, not any value
	if listingID == nil {
		query = query.Where("listing_id IS NULL")
	} else {
		query = query.Where("listing_id = ?", *listingID)
	}

	var conversation models.Conversation
	if err := query.First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (chr *chatRepository) CreateConversation(conversation *models.Conversation) error {
	return chr.db.Create(conversation).Error
}

func (chr *chatRepository) GetConversationByID(conversationID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := chr.db.First(&conversation, conversationID).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (chr *chatRepository) GetUserConversations(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := chr.db.
		Where("participant_a_id = ? OR participant_b_id = ?", userID, userID).
		Order("last_activity_at DESC NULLS LAST").
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

func (chr *chatRepository) ConversationIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := chr.db.
		Model(&models.Conversation{}).
		Where("participant_a_id = ? OR participant_b_id = ?", userID, userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (chr *chatRepository) IsMember(conversationID, userID uint) (bool, error) {
	var count int64
	if err := chr.db.
		Model(&models.Conversation{}).
		Where("id = ? AND (participant_a_id = ? OR participant_b_id = ?)", conversationID, userID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (chr *chatRepository) SaveMessage(message *models.Message) error {
	return chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("last_activity_at", message.CreatedAt).Error
	})
}

// GetRecentMessages returns up to limit newest messages, ascending by
// creation time.
func (chr *chatRepository) GetRecentMessages(conversationID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	if err := chr.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (chr *chatRepository) GetLastMessage(conversationID uint) (*models.Message, error) {
	var message models.Message
	err := chr.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (chr *chatRepository) CountUnread(conversationID, viewerID uint) (int, error) {
	var count int64
	err := chr.db.
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, viewerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (chr *chatRepository) CountUnreadIn(conversationIDs []uint, viewerID uint) (int, error) {
	if len(conversationIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := chr.db.
		Model(&models.Message{}).
		Where("conversation_id IN ? AND sender_id <> ? AND read_at IS NULL", conversationIDs, viewerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// MarkConversationRead flips every unread incoming message and returns the
// rows it changed. The sender guard keeps a message owner from marking their
// own messages; re-running against an already-read conversation changes
// nothing, which makes the operation idempotent.
func (chr *chatRepository) MarkConversationRead(conversationID, readerID uint, at time.Time) ([]models.Message, error) {
	var flipped []models.Message
	err := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
			Find(&flipped).Error; err != nil {
			return err
		}
		if len(flipped) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(flipped))
		for _, message := range flipped {
			ids = append(ids, message.ID)
		}
		if err := tx.Model(&models.Message{}).
			Where("id IN ? AND read_at IS NULL", ids).
			Update("read_at", at).Error; err != nil {
			return err
		}
		for i := range flipped {
			readAt := at
			flipped[i].ReadAt = &readAt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flipped, nil
}
