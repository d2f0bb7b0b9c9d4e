package ai

import (
	"sync"

	"github.com/cloudwego/eino/schema"
)

const defaultHistoryLimit = 10

// HistoryStore keeps a bounded per-conversation exchange history for the
// reply generator. It is an explicit, capped store rather than an ever-growing
// process-wide map: old turns are evicted from the front once the limit is
// reached, and clearing a conversation drops its history entirely.
type HistoryStore struct {
	mu      sync.Mutex
	limit   int
	entries map[int64][]*schema.Message
}

// NewHistoryStore creates a store capped at limit messages per conversation.
func NewHistoryStore(limit int) *HistoryStore {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &HistoryStore{
		limit:   limit,
		entries: make(map[int64][]*schema.Message),
	}
}

// Window returns a copy of the conversation's recent turns, oldest first.
func (h *HistoryStore) Window(conversationID int64) []*schema.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*schema.Message(nil), h.entries[conversationID]...)
}

// Record appends one user/assistant exchange and trims beyond the cap.
func (h *HistoryStore) Record(conversationID int64, userText, assistantText string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns := append(h.entries[conversationID],
		schema.UserMessage(userText),
		schema.AssistantMessage(assistantText, nil),
	)
	if over := len(turns) - h.limit; over > 0 {
		turns = turns[over:]
	}
	h.entries[conversationID] = turns
}

// Drop forgets a conversation entirely.
func (h *HistoryStore) Drop(conversationID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.entries, conversationID)
}
