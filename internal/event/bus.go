// Package event provides the synchronous event bus that connects the
// span store, the presentation layer, and the host bridge. Delivery is
// in-order and runs to completion before Publish returns: the engine is
// single-threaded and event-driven, so notifications are never coalesced
// or reordered.
package event

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Topic identifies an event stream.
type Topic string

// Bus topics.
const (
	// TopicSpansChanged carries the committed span set after a store
	// mutation. Payload: []span.Span.
	TopicSpansChanged Topic = "spans.changed"

	// TopicLayoutChanged signals that rendered content changed size and
	// the host should re-measure. Payload: Layout.
	TopicLayoutChanged Topic = "layout.changed"

	// TopicConfigChanged signals a live configuration reload.
	// Payload: the new *config.Config.
	TopicConfigChanged Topic = "config.changed"
)

// Layout is the payload of TopicLayoutChanged.
type Layout struct {
	Width  int
	Height int
}

// Handler receives published events.
type Handler func(topic Topic, payload any)

// Bus errors.
var (
	// ErrNilHandler indicates a subscription with no handler.
	ErrNilHandler = errors.New("nil handler")
	// ErrInvalidTopic indicates an empty topic.
	ErrInvalidTopic = errors.New("invalid topic")
)

// Subscription is a handle on a registered handler.
type Subscription struct {
	ID    string
	Topic Topic

	handler Handler
}

// Bus delivers events synchronously to subscribers in subscription
// order. Safe for concurrent use; handlers for a single Publish run
// in order on the publishing goroutine.
type Bus struct {
	mu        sync.RWMutex
	subs      map[Topic][]*Subscription
	published atomic.Uint64
	delivered atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]*Subscription)}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, h Handler) (*Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if topic == "" {
		return nil, ErrInvalidTopic
	}
	sub := &Subscription{
		ID:      uuid.NewString(),
		Topic:   topic,
		handler: h,
	}
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()
	return sub, nil
}

// Unsubscribe removes a subscription. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[sub.Topic]
	for i, s := range list {
		if s.ID == sub.ID {
			b.subs[sub.Topic] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Publish delivers the payload to every subscriber of the topic, in
// subscription order, before returning.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	list := append([]*Subscription(nil), b.subs[topic]...)
	b.mu.RUnlock()

	b.published.Add(1)
	for _, sub := range list {
		sub.handler(topic, payload)
		b.delivered.Add(1)
	}
}

// Stats reports publish and delivery counts.
func (b *Bus) Stats() (published, delivered uint64) {
	return b.published.Load(), b.delivered.Load()
}
