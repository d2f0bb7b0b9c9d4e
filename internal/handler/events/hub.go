package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/elitechat/elite/backend/internal/service/delivery"
)

const subscriberBuffer = 16

// Hub fans conversation events out to WebSocket and SSE subscribers. It is
// the delivery simulator's publisher: the typing indicator and receipt ticks
// the UI renders all arrive through here.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int64]map[string]chan delivery.Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[int64]map[string]chan delivery.Event)}
}

// Publish implements delivery.Publisher. A slow subscriber drops events
// rather than block the simulator.
func (h *Hub) Publish(conversationID int64, event delivery.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers[conversationID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a watcher on a conversation. The returned cancel
// function is idempotent and closes the channel.
func (h *Hub) Subscribe(conversationID int64) (<-chan delivery.Event, func()) {
	id := uuid.NewString()
	ch := make(chan delivery.Event, subscriberBuffer)

	h.mu.Lock()
	if h.subscribers[conversationID] == nil {
		h.subscribers[conversationID] = make(map[string]chan delivery.Event)
	}
	h.subscribers[conversationID][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers[conversationID], id)
			if len(h.subscribers[conversationID]) == 0 {
				delete(h.subscribers, conversationID)
			}
			close(ch)
			h.mu.Unlock()
		})
	}

	return ch, cancel
}
