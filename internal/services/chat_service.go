package services

import (
	"log"
	"strings"
	"sync"
	"time"

	"campusmarket/internal/errs"
	"campusmarket/internal/models"
	"campusmarket/internal/realtime"
	"campusmarket/internal/repositories"

	"github.com/samber/lo"
)

// ChatService owns the messaging core: conversation resolution, enriched
// listing, message persistence and read-state transitions. Every operation
// takes the viewer explicitly; there is no ambient session.
type ChatService struct {
	chatRepo repositories.ChatRepository
	authRepo repositories.AuthenticationRepository
	broker   *realtime.Broker
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	authRepo repositories.AuthenticationRepository,
	broker *realtime.Broker,
) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		authRepo: authRepo,
		broker:   broker,
	}
}

// Resolve finds or creates the single canonical conversation for the
// unordered pair {viewer, counterpart} and the given listing context. A nil
// listing context only ever matches a nil one. Participants are stored with
// the smaller id first so (A, B) and (B, A) land on the same row.
func (cs *ChatService) Resolve(viewerID, counterpartID uint, listingID *uint) (*models.Conversation, error) {
	if viewerID == 0 {
		return nil, errs.ErrUnauthorized
	}
	if counterpartID == 0 || counterpartID == viewerID {
		return nil, errs.ErrSelfConversation
	}
	if _, err := cs.authRepo.FindByID(counterpartID); err != nil {
		return nil, errs.ErrUserNotFound
	}

	participantA, participantB := viewerID, counterpartID
	if participantB < participantA {
		participantA, participantB = participantB, participantA
	}

	existing, err := cs.chatRepo.FindConversation(participantA, participantB, listingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	conversation := &models.Conversation{
		ParticipantAID: participantA,
		ParticipantBID: participantB,
		ListingID:      listingID,
	}
	if createErr := cs.chatRepo.CreateConversation(conversation); createErr != nil {
		// A concurrent resolve may have won the unique index; take its row.
		existing, err = cs.chatRepo.FindConversation(participantA, participantB, listingID)
		if err == nil && existing != nil {
			return existing, nil
		}
		return nil, createErr
	}

	if err := cs.broker.Publish(realtime.ConversationInserted(conversation)); err != nil {
		log.Printf("Error publishing conversation insert for %v: %v", conversation.ID, err)
	}
	return conversation, nil
}

// ListConversations returns the viewer's conversations ordered by last
// activity, each enriched with counterpart profile, last message and unread
// count. Enrichment of all rows runs as one concurrent fan-out and the full
// list is published only once every row has settled.
func (cs *ChatService) ListConversations(viewerID uint) ([]models.ConversationView, error) {
	if viewerID == 0 {
		return nil, errs.ErrUnauthorized
	}
	conversations, err := cs.chatRepo.GetUserConversations(viewerID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ConversationView, len(conversations))
	enrichErrs := make([]error, len(conversations))
	var wg sync.WaitGroup
	for index := range conversations {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			views[index], enrichErrs[index] = cs.enrich(viewerID, conversations[index])
		}(index)
	}
	wg.Wait()

	for _, enrichErr := range enrichErrs {
		if enrichErr != nil {
			return nil, enrichErr
		}
	}
	return views, nil
}

func (cs *ChatService) enrich(viewerID uint, conversation models.Conversation) (models.ConversationView, error) {
	var counterpart *models.UserResponse
	if user, err := cs.authRepo.FindByID(conversation.CounterpartOf(viewerID)); err == nil {
		counterpart = user.ToUserResponse()
	}

	lastMessage, err := cs.chatRepo.GetLastMessage(conversation.ID)
	if err != nil {
		return models.ConversationView{}, err
	}
	unread, err := cs.chatRepo.CountUnread(conversation.ID, viewerID)
	if err != nil {
		return models.ConversationView{}, err
	}
	return conversation.ToConversationView(counterpart, lastMessage, unread), nil
}

// ValidateMessagePayload enforces that a message carries at least one of
// trimmed content, attachments or a link, before any I/O happens.
func ValidateMessagePayload(content string, attachments []string, link *string) error {
	if strings.TrimSpace(content) != "" {
		return nil
	}
	if len(attachments) > 0 {
		return nil
	}
	if link != nil && strings.TrimSpace(*link) != "" {
		return nil
	}
	return errs.ErrEmptyMessage
}

func (cs *ChatService) SendMessage(senderID uint, request *models.MessageRequest) (*models.Message, error) {
	if senderID == 0 {
		return nil, errs.ErrUnauthorized
	}
	if err := ValidateMessagePayload(request.Content, request.Attachments, request.Link); err != nil {
		return nil, err
	}
	member, err := cs.chatRepo.IsMember(request.ConversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errs.ErrNotConversationMember
	}

	message := &models.Message{
		ConversationID: request.ConversationID,
		SenderID:       senderID,
		Content:        request.Content,
		Attachments:    request.Attachments,
		Link:           request.Link,
	}
	if err := cs.chatRepo.SaveMessage(message); err != nil {
		return nil, err
	}

	if err := cs.broker.Publish(realtime.MessageInserted(message)); err != nil {
		log.Printf("Error publishing message insert for %v: %v", message.ID, err)
	}
	// the save bumped the conversation's last activity; inboxes re-sort on it
	if conversation, convErr := cs.chatRepo.GetConversationByID(request.ConversationID); convErr == nil {
		if err := cs.broker.Publish(realtime.ConversationUpdated(conversation)); err != nil {
			log.Printf("Error publishing conversation update for %v: %v", conversation.ID, err)
		}
	}
	return message, nil
}

// MarkConversationRead flips the viewer's unread incoming messages and
// publishes one update event per flipped row. Re-marking an already read
// conversation is a no-op.
func (cs *ChatService) MarkConversationRead(viewerID, conversationID uint) (int, error) {
	if viewerID == 0 {
		return 0, errs.ErrUnauthorized
	}
	flipped, err := cs.chatRepo.MarkConversationRead(conversationID, viewerID, time.Now())
	if err != nil {
		return 0, err
	}
	for i := range flipped {
		if err := cs.broker.Publish(realtime.MessageUpdated(&flipped[i])); err != nil {
			log.Printf("Error publishing read update for message %v: %v", flipped[i].ID, err)
		}
	}
	return len(flipped), nil
}

func (cs *ChatService) GetMessages(viewerID, conversationID uint, limit int) ([]models.Message, error) {
	if viewerID == 0 {
		return nil, errs.ErrUnauthorized
	}
	member, err := cs.chatRepo.IsMember(conversationID, viewerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errs.ErrNotConversationMember
	}
	return cs.chatRepo.GetRecentMessages(conversationID, limit)
}

// UnreadTotal is the badge count across all of the viewer's conversations.
// A viewer with no conversations never issues the count query.
func (cs *ChatService) UnreadTotal(viewerID uint) (int, error) {
	if viewerID == 0 {
		return 0, errs.ErrUnauthorized
	}
	ids, err := cs.chatRepo.ConversationIDs(viewerID)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return cs.chatRepo.CountUnreadIn(ids, viewerID)
}

func (cs *ChatService) CheckConversationExists(conversationID uint) bool {
	_, err := cs.chatRepo.GetConversationByID(conversationID)
	return err == nil
}

func (cs *ChatService) CheckUserInConversation(userID, conversationID uint) bool {
	member, err := cs.chatRepo.IsMember(conversationID, userID)
	return err == nil && member
}

// ConversationIDsOf is used by the live components to scope predicates.
func (cs *ChatService) ConversationIDsOf(viewerID uint) ([]uint, error) {
	ids, err := cs.chatRepo.ConversationIDs(viewerID)
	if err != nil {
		return nil, err
	}
	return lo.Uniq(ids), nil
}
