package events

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultBuffer is the per-subscriber channel size when none is given.
const DefaultBuffer = 16

type EventHub struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	buffer int
	closed bool
}

func NewEventHub(buffer int) *EventHub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &EventHub{subs: make(map[chan Event]struct{}), buffer: buffer}
}

// Subscribe returns a new subscription. After Close it returns an already
// closed channel.
func (h *EventHub) Subscribe() chan Event {
	ch := make(chan Event, h.buffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	return ch
}

// Close closes every subscription and refuses new ones. Publish becomes a
// no-op.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *EventHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// SubscriberCount returns the number of live subscriptions.
func (h *EventHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *EventHub) Publish(name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("event", name).Error("failed to marshal event payload")
		return
	}
	msg := Event{Name: name, Data: b}
	h.mu.RLock()
	for ch := range h.subs {
		// Non-blocking send; drop if subscriber is slow
		select {
		case ch <- msg:
		default:
			logrus.WithField("event", name).Warn("subscriber is slow, dropping event")
		}
	}
	h.mu.RUnlock()
}
