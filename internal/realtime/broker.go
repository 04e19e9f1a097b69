package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Broker is the push-notification channel between the storage layer and the
// live components. Events are carried over one Redis pub/sub channel per
// table so every node sees every change; each component owns the
// subscription handle it created and must release it itself.
//
// A nil Redis client switches the broker to in-process dispatch, which is
// what the unit tests run against.
type Broker struct {
	ctx    context.Context
	rdb    *redis.Client
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]*Subscription
}

type Subscription struct {
	broker    *Broker
	table     string
	id        uint64
	predicate func(ChangeEvent) bool
	handler   func(ChangeEvent)
}

func NewBroker(ctx context.Context, rdb *redis.Client) *Broker {
	broker := &Broker{
		ctx:  ctx,
		rdb:  rdb,
		subs: make(map[string]map[uint64]*Subscription),
	}
	if rdb != nil {
		go broker.consume(TableConversations)
		go broker.consume(TableMessages)
	}
	return broker
}

func channelFor(table string) string {
	return "changes." + table
}

// Publish sends the event to every node, including this one. The local
// dispatch path is only taken when the broker runs without Redis.
func (b *Broker) Publish(event ChangeEvent) error {
	if b.rdb == nil {
		b.dispatch(event)
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(b.ctx, channelFor(event.Table), payload).Err()
}

// Subscribe registers a handler for one table. The predicate may be nil to
// receive every event of that table. Handlers run on the broker's dispatch
// goroutine; long work belongs in the handler's own goroutine.
func (b *Broker) Subscribe(table string, predicate func(ChangeEvent) bool, handler func(ChangeEvent)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{
		broker:    b,
		table:     table,
		id:        b.nextID,
		predicate: predicate,
		handler:   handler,
	}
	if _, ok := b.subs[table]; !ok {
		b.subs[table] = make(map[uint64]*Subscription)
	}
	b.subs[table][sub.id] = sub
	return sub
}

// Release detaches the subscription; no handler call is made after it
// returns from the broker's point of view. Safe to call more than once.
func (s *Subscription) Release() {
	if s == nil || s.broker == nil {
		return
	}
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()
	if table, ok := s.broker.subs[s.table]; ok {
		delete(table, s.id)
		if len(table) == 0 {
			delete(s.broker.subs, s.table)
		}
	}
}

func (b *Broker) consume(table string) {
	pubsub := b.rdb.Subscribe(b.ctx, channelFor(table))
	if _, err := pubsub.Receive(b.ctx); err != nil {
		log.Printf("Could not subscribe to channel %v: %v", channelFor(table), err)
		return
	}
	for msg := range pubsub.Channel() {
		var event ChangeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshalling change event: %v", err)
			continue
		}
		b.dispatch(event)
	}
}

func (b *Broker) dispatch(event ChangeEvent) {
	b.mu.Lock()
	matched := make([]*Subscription, 0, len(b.subs[event.Table]))
	for _, sub := range b.subs[event.Table] {
		if sub.predicate == nil || sub.predicate(event) {
			matched = append(matched, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range matched {
		sub.handler(event)
	}
}
