// Package stream provides the in-process per-lead event broker. Stream events
// are transient: they fan out to live subscribers and are never persisted or
// replayed.
package stream

import (
	"sync"

	"github.com/imoveisai/leadhub/internal/domain"
)

// subscriptionBuffer is the per-subscriber channel capacity. A subscriber that
// falls this far behind starts dropping events; the client contract treats
// every event as a refetch hint, so a dropped event is recovered by the next one.
const subscriptionBuffer = 16

// Broker fans out stream events to subscribers keyed by lead.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// Subscription is one subscriber's view of a lead's event stream.
type Subscription struct {
	leadID string
	ch     chan domain.StreamEvent
	broker *Broker
	once   sync.Once
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		subs: map[string]map[*Subscription]struct{}{},
	}
}

// Subscribe registers a new subscriber for the given lead.
func (b *Broker) Subscribe(leadID string) *Subscription {
	sub := &Subscription{
		leadID: leadID,
		ch:     make(chan domain.StreamEvent, subscriptionBuffer),
		broker: b,
	}

	b.mu.Lock()
	if b.subs[leadID] == nil {
		b.subs[leadID] = map[*Subscription]struct{}{}
	}
	b.subs[leadID][sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Publish delivers an event to every live subscriber of the lead.
// Delivery is non-blocking: full subscriber buffers drop the event.
func (b *Broker) Publish(leadID string, ev domain.StreamEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[leadID] {
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// SubscriberCount returns the number of live subscribers for a lead.
func (b *Broker) SubscriberCount(leadID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[leadID])
}

// Events returns the subscription's event channel. The channel is closed on Close.
func (s *Subscription) Events() <-chan domain.StreamEvent {
	return s.ch
}

// Close removes the subscription from the broker and closes its channel.
// Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		b := s.broker
		b.mu.Lock()
		if set, ok := b.subs[s.leadID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(b.subs, s.leadID)
			}
		}
		close(s.ch)
		b.mu.Unlock()
	})
}
