package services

import (
	"log"
	"sync"

	"campusmarket/internal/realtime"
)

// UnreadAggregator maintains the single badge count across all of the
// viewer's conversations. It recomputes from scratch on every message-table
// change, system-wide; no incremental bookkeeping. The count is 0 until the
// first computation resolves.
type UnreadAggregator struct {
	viewerID uint
	chat     *ChatService
	broker   *realtime.Broker

	mu       sync.Mutex
	released bool
	count    int
	sub      *realtime.Subscription
	updates  chan int
}

func NewUnreadAggregator(viewerID uint, chat *ChatService, broker *realtime.Broker) *UnreadAggregator {
	return &UnreadAggregator{
		viewerID: viewerID,
		chat:     chat,
		broker:   broker,
		updates:  make(chan int, 1),
	}
}

func (agg *UnreadAggregator) Open() (<-chan int, error) {
	count, err := agg.chat.UnreadTotal(agg.viewerID)
	if err != nil {
		return nil, err
	}
	agg.publish(count)

	agg.sub = agg.broker.Subscribe(
		realtime.TableMessages,
		nil,
		func(realtime.ChangeEvent) { go agg.recompute() },
	)
	return agg.updates, nil
}

func (agg *UnreadAggregator) Count() int {
	agg.mu.Lock()
	defer agg.mu.Unlock()
	return agg.count
}

func (agg *UnreadAggregator) recompute() {
	count, err := agg.chat.UnreadTotal(agg.viewerID)
	if err != nil {
		log.Printf("Error recomputing unread count for user %v: %v", agg.viewerID, err)
		return
	}
	agg.publish(count)
}

func (agg *UnreadAggregator) publish(count int) {
	agg.mu.Lock()
	defer agg.mu.Unlock()
	if agg.released {
		return
	}
	agg.count = count
	select {
	case <-agg.updates:
	default:
	}
	agg.updates <- count
}

func (agg *UnreadAggregator) Release() {
	agg.mu.Lock()
	if agg.released {
		agg.mu.Unlock()
		return
	}
	agg.released = true
	sub := agg.sub
	agg.sub = nil
	close(agg.updates)
	agg.mu.Unlock()

	if sub != nil {
		sub.Release()
	}
}
