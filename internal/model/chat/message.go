package chat

// Sender identifies which side of a conversation authored a message.
type Sender string

const (
	SenderMe   Sender = "me"
	SenderThem Sender = "them"
)

// Status tracks delivery progress of an outgoing message. Transitions are
// strictly forward: sent → delivered → read.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
)

var statusRank = map[Status]int{
	StatusSent:      0,
	StatusDelivered: 1,
	StatusRead:      2,
}

// Valid reports whether s is a known delivery state.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Next returns the state following s. Read is terminal and returns itself.
func (s Status) Next() Status {
	switch s {
	case StatusSent:
		return StatusDelivered
	case StatusDelivered:
		return StatusRead
	default:
		return s
	}
}

// Before reports whether s precedes other in delivery order.
func (s Status) Before(other Status) bool {
	return statusRank[s] < statusRank[other]
}

// MediaType distinguishes attachment kinds.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaItem is a single attachment carried by a message.
type MediaItem struct {
	Type MediaType `json:"type"`
	URL  string    `json:"url"`
}

// Reaction aggregates users who picked the same emoji on a message. Each user
// holds at most one reaction per message, so Count always equals len(UserIDs).
type Reaction struct {
	Emoji   string   `json:"emoji"`
	Count   int      `json:"count"`
	UserIDs []string `json:"-"`
}

// Message is one entry in a conversation log.
type Message struct {
	ID             int64       `json:"id"`
	ConversationID int64       `json:"conversationId"`
	Text           string      `json:"text"`
	Media          []MediaItem `json:"media,omitempty"`
	Sender         Sender      `json:"sender"`
	Time           string      `json:"time"`
	Status         Status      `json:"status"`
	IsRead         bool        `json:"isRead"`
	Reactions      []Reaction  `json:"reactions"`
}
