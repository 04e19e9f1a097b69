package services

import (
	"log"
	"sync"

	"campusmarket/internal/models"
	"campusmarket/internal/realtime"
)

// ConversationStore keeps one viewer's enriched conversation list fresh for
// as long as the consumer listens. Any message insert anywhere, or any
// conversation change involving the viewer, triggers a full re-list; the
// whole-list refresh is deliberately coarse, trading fan-out cost for
// correctness at low message volume.
type ConversationStore struct {
	viewerID uint
	chat     *ChatService
	broker   *realtime.Broker

	mu       sync.Mutex
	released bool
	subs     []*realtime.Subscription
	updates  chan []models.ConversationView
}

func NewConversationStore(viewerID uint, chat *ChatService, broker *realtime.Broker) *ConversationStore {
	return &ConversationStore{
		viewerID: viewerID,
		chat:     chat,
		broker:   broker,
		updates:  make(chan []models.ConversationView, 1),
	}
}

// Open performs the initial list-and-enrich, then subscribes for refresh
// triggers. Snapshots arrive on the returned channel; a slow consumer only
// ever sees the newest one.
func (store *ConversationStore) Open() (<-chan []models.ConversationView, error) {
	views, err := store.chat.ListConversations(store.viewerID)
	if err != nil {
		return nil, err
	}
	store.publish(views)

	conversationSub := store.broker.Subscribe(
		realtime.TableConversations,
		func(event realtime.ChangeEvent) bool {
			return event.Conversation != nil && event.Conversation.HasParticipant(store.viewerID)
		},
		func(realtime.ChangeEvent) { go store.refresh() },
	)
	messageSub := store.broker.Subscribe(
		realtime.TableMessages,
		func(event realtime.ChangeEvent) bool { return event.Kind == realtime.KindInsert },
		func(realtime.ChangeEvent) { go store.refresh() },
	)

	store.mu.Lock()
	store.subs = append(store.subs, conversationSub, messageSub)
	store.mu.Unlock()

	return store.updates, nil
}

func (store *ConversationStore) refresh() {
	views, err := store.chat.ListConversations(store.viewerID)
	if err != nil {
		log.Printf("Error refreshing conversations for user %v: %v", store.viewerID, err)
		return
	}
	store.publish(views)
}

func (store *ConversationStore) publish(views []models.ConversationView) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.released {
		return
	}
	select {
	case <-store.updates:
	default:
	}
	store.updates <- views
}

// Release stops refreshes; nothing is published after it returns.
func (store *ConversationStore) Release() {
	store.mu.Lock()
	if store.released {
		store.mu.Unlock()
		return
	}
	store.released = true
	subs := store.subs
	store.subs = nil
	close(store.updates)
	store.mu.Unlock()

	for _, sub := range subs {
		sub.Release()
	}
}
