package delivery

import (
	"github.com/elitechat/elite/backend/internal/model/chat"
)

// EventType enumerates conversation notifications.
type EventType string

const (
	EventTypingStarted   EventType = "typing_started"
	EventTypingStopped   EventType = "typing_stopped"
	EventMessageStatus   EventType = "message_status"
	EventMessageAppended EventType = "message_appended"
)

// Event is one conversation-scoped notification fanned out to transports.
type Event struct {
	Type           EventType     `json:"type"`
	ConversationID int64         `json:"conversationId"`
	Message        *chat.Message `json:"message,omitempty"`
}

// Publisher fans events out to whoever is watching the conversation.
type Publisher interface {
	Publish(conversationID int64, event Event)
}

// NopPublisher discards all events.
type NopPublisher struct{}

func (NopPublisher) Publish(int64, Event) {}
