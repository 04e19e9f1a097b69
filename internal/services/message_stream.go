package services

import (
	"log"
	"sync"
	"time"

	"campusmarket/internal/errs"
	"campusmarket/internal/models"
	"campusmarket/internal/realtime"
)

const messageLoadLimit = 100

// StreamEvent is one live mutation of an open conversation: a newly
// appended message or an in-place read-state replacement.
type StreamEvent struct {
	Kind    realtime.Kind  `json:"kind"`
	Message models.Message `json:"message"`
}

// MessageStream owns the ordered message list of one open conversation for
// one viewer. It loads history, marks incoming messages read, then keeps the
// list live from the broker. A stream serves exactly one conversation;
// switching means releasing this stream and opening a new one.
type MessageStream struct {
	conversationID uint
	viewerID       uint
	chat           *ChatService

	mu       sync.Mutex
	released bool
	messages []models.Message
	sub      *realtime.Subscription
	events   chan StreamEvent
}

func NewMessageStream(conversationID, viewerID uint, chat *ChatService) *MessageStream {
	return &MessageStream{
		conversationID: conversationID,
		viewerID:       viewerID,
		chat:           chat,
		events:         make(chan StreamEvent, 64),
	}
}

// Open loads the newest messages ascending by creation time, marks unread
// incoming ones read, then subscribes to live changes scoped to this
// conversation. The mark-read failure path is swallowed on purpose: a stale
// read receipt is not worth failing the whole stream over.
func (stream *MessageStream) Open() (<-chan StreamEvent, error) {
	messages, err := stream.chat.GetMessages(stream.viewerID, stream.conversationID, messageLoadLimit)
	if err != nil {
		return nil, err
	}

	stream.mu.Lock()
	stream.messages = messages
	stream.mu.Unlock()

	stream.markReadBestEffort()

	stream.sub = stream.chat.broker.Subscribe(
		realtime.TableMessages,
		func(event realtime.ChangeEvent) bool {
			return event.ConversationID == stream.conversationID
		},
		stream.handleEvent,
	)

	return stream.events, nil
}

func (stream *MessageStream) handleEvent(event realtime.ChangeEvent) {
	if event.Message == nil {
		return
	}
	switch event.Kind {
	case realtime.KindInsert:
		incoming := stream.insert(*event.Message)
		if incoming {
			go stream.markReadBestEffort()
		}
	case realtime.KindUpdate:
		stream.replace(*event.Message)
	}
}

// insert appends a live message, keeping creation timestamps non-decreasing
// in list order; delivery order from the channel is not trusted. Duplicates
// by id are dropped, which suppresses the subscription echo of the sender's
// own Send. Reports whether the message came from the counterpart.
func (stream *MessageStream) insert(message models.Message) bool {
	stream.mu.Lock()
	if stream.released {
		stream.mu.Unlock()
		return false
	}
	for i := range stream.messages {
		if stream.messages[i].ID == message.ID {
			stream.mu.Unlock()
			return false
		}
	}
	position := len(stream.messages)
	for position > 0 && stream.messages[position-1].CreatedAt.After(message.CreatedAt) {
		position--
	}
	stream.messages = append(stream.messages, models.Message{})
	copy(stream.messages[position+1:], stream.messages[position:])
	stream.messages[position] = message
	stream.mu.Unlock()

	stream.emit(StreamEvent{Kind: realtime.KindInsert, Message: message})
	return message.SenderID != stream.viewerID
}

func (stream *MessageStream) replace(message models.Message) {
	stream.mu.Lock()
	if stream.released {
		stream.mu.Unlock()
		return
	}
	replaced := false
	for i := range stream.messages {
		if stream.messages[i].ID == message.ID {
			stream.messages[i] = message
			replaced = true
			break
		}
	}
	stream.mu.Unlock()

	if replaced {
		stream.emit(StreamEvent{Kind: realtime.KindUpdate, Message: message})
	}
}

func (stream *MessageStream) emit(event StreamEvent) {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	if stream.released {
		return
	}
	select {
	case stream.events <- event:
	default:
		log.Printf("Dropping stream event for conversation %v: consumer too slow", stream.conversationID)
	}
}

// Send validates and persists an outgoing message, appends it locally and
// returns it. The broker will echo it back as an insert; the id dedup in
// insert keeps it from rendering twice.
func (stream *MessageStream) Send(content string, attachments []string, link *string) (*models.Message, error) {
	if stream.isReleased() {
		return nil, errs.ErrSubscriptionReleased
	}
	message, err := stream.chat.SendMessage(stream.viewerID, &models.MessageRequest{
		ConversationID: stream.conversationID,
		Content:        content,
		Attachments:    attachments,
		Link:           link,
	})
	if err != nil {
		return nil, err
	}
	stream.insert(*message)
	return message, nil
}

// MarkRead is idempotent; marking an already-read conversation is a no-op.
func (stream *MessageStream) MarkRead() error {
	flipped, err := stream.chat.MarkConversationRead(stream.viewerID, stream.conversationID)
	if err != nil {
		return err
	}
	if flipped > 0 {
		stream.applyLocalReadState()
	}
	return nil
}

func (stream *MessageStream) markReadBestEffort() {
	if err := stream.MarkRead(); err != nil {
		log.Printf("Error marking conversation %v read for user %v: %v",
			stream.conversationID, stream.viewerID, err)
	}
}

func (stream *MessageStream) applyLocalReadState() {
	now := time.Now()
	stream.mu.Lock()
	defer stream.mu.Unlock()
	for i := range stream.messages {
		if stream.messages[i].SenderID != stream.viewerID && stream.messages[i].ReadAt == nil {
			readAt := now
			stream.messages[i].ReadAt = &readAt
		}
	}
}

// Messages returns a snapshot of the current ordered list.
func (stream *MessageStream) Messages() []models.Message {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	snapshot := make([]models.Message, len(stream.messages))
	copy(snapshot, stream.messages)
	return snapshot
}

func (stream *MessageStream) isReleased() bool {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	return stream.released
}

// Release tears the subscription down. Must complete before a stream for
// another conversation is opened, so no two subscriptions overlap.
func (stream *MessageStream) Release() {
	stream.mu.Lock()
	if stream.released {
		stream.mu.Unlock()
		return
	}
	stream.released = true
	sub := stream.sub
	stream.sub = nil
	close(stream.events)
	stream.mu.Unlock()

	sub.Release()
}
