package delivery

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/elitechat/elite/backend/internal/model/chat"
	"github.com/elitechat/elite/backend/internal/model/roster"
	chatservice "github.com/elitechat/elite/backend/internal/service/chat"
)

// ReplyGenerator is the external collaborator producing partner replies.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, partner roster.Summary, userText string) (string, error)
}

// Config tunes the simulated delays.
type Config struct {
	DeliveredDelay time.Duration
	ReadDelay      time.Duration
	ReplyBaseDelay time.Duration
	ReplyJitter    time.Duration
	ReplyTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.DeliveredDelay <= 0 {
		c.DeliveredDelay = 800 * time.Millisecond
	}
	if c.ReadDelay <= 0 {
		c.ReadDelay = 1600 * time.Millisecond
	}
	if c.ReplyBaseDelay <= 0 {
		c.ReplyBaseDelay = 1500 * time.Millisecond
	}
	if c.ReplyTimeout <= 0 {
		c.ReplyTimeout = 12 * time.Second
	}
	return c
}

type pendingReply struct {
	timer Timer
	seq   uint64
}

// Simulator models the illusion of network delivery entirely client-side.
// Every sent message walks sent → delivered → read on unconditional timers,
// and online partners "type" for a while before an AI-generated reply lands.
// The timers are the simulation; the state machine itself lives in the chat
// service and could equally be driven by real acks through the Clock seam.
type Simulator struct {
	cfg     Config
	clock   Clock
	chats   *chatservice.Service
	roster  roster.Store
	replies ReplyGenerator // nil disables simulated replies
	events  Publisher

	mu           sync.Mutex
	rng          *rand.Rand
	typing       map[int64]bool
	pending      map[int64]*pendingReply
	statusTimers map[int64][]Timer
	seq          uint64
}

// NewSimulator wires the simulator against the message store and roster.
// A nil events publisher is replaced with a no-op one.
func NewSimulator(cfg Config, clock Clock, chats *chatservice.Service, store roster.Store, replies ReplyGenerator, events Publisher) *Simulator {
	if clock == nil {
		clock = NewClock()
	}
	if events == nil {
		events = NopPublisher{}
	}

	return &Simulator{
		cfg:          cfg.withDefaults(),
		clock:        clock,
		chats:        chats,
		roster:       store,
		replies:      replies,
		events:       events,
		rng:          rand.New(rand.NewSource(clock.Now().UnixNano())),
		typing:       make(map[int64]bool),
		pending:      make(map[int64]*pendingReply),
		statusTimers: make(map[int64][]Timer),
	}
}

// TrackSend schedules the unconditional delivered/read transitions for a
// freshly sent message and, when the partner qualifies, the simulated reply.
func (s *Simulator) TrackSend(msg chat.Message) {
	s.scheduleStatus(msg.ConversationID, msg.ID, chat.StatusDelivered, s.cfg.DeliveredDelay)
	s.scheduleStatus(msg.ConversationID, msg.ID, chat.StatusRead, s.cfg.ReadDelay)
	s.maybeScheduleReply(msg)
}

// Typing reports whether the simulated partner is currently composing.
func (s *Simulator) Typing(conversationID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing[conversationID]
}

// Cancel stops every pending timer for the conversation. Called when the user
// switches away from or closes the conversation, so a late reply never lands
// in a conversation the user has left.
func (s *Simulator) Cancel(conversationID int64) {
	s.mu.Lock()
	for _, timer := range s.statusTimers[conversationID] {
		timer.Stop()
	}
	delete(s.statusTimers, conversationID)

	if p := s.pending[conversationID]; p != nil {
		p.timer.Stop()
		delete(s.pending, conversationID)
	}

	wasTyping := s.typing[conversationID]
	delete(s.typing, conversationID)
	s.mu.Unlock()

	if wasTyping {
		s.events.Publish(conversationID, Event{Type: EventTypingStopped, ConversationID: conversationID})
	}
}

func (s *Simulator) scheduleStatus(conversationID, messageID int64, target chat.Status, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var timer Timer
	timer = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		s.dropStatusTimerLocked(conversationID, timer)
		s.mu.Unlock()

		updated, changed, err := s.chats.AdvanceStatus(context.Background(), conversationID, messageID, target)
		if err != nil || !changed {
			return
		}
		s.events.Publish(conversationID, Event{
			Type:           EventMessageStatus,
			ConversationID: conversationID,
			Message:        &updated,
		})
	})
	s.statusTimers[conversationID] = append(s.statusTimers[conversationID], timer)
}

func (s *Simulator) dropStatusTimerLocked(conversationID int64, timer Timer) {
	timers := s.statusTimers[conversationID]
	for i, t := range timers {
		if t == timer {
			s.statusTimers[conversationID] = append(timers[:i], timers[i+1:]...)
			return
		}
	}
}

// maybeScheduleReply starts the typing-then-reply sequence when the latest
// message is a local, non-empty text to an online partner. At most one reply
// is pending per conversation: a newer send replaces the previous timer.
func (s *Simulator) maybeScheduleReply(msg chat.Message) {
	if s.replies == nil {
		return
	}
	if msg.Sender != chat.SenderMe || strings.TrimSpace(msg.Text) == "" {
		return
	}

	partner, ok := s.roster.FindByID(msg.ConversationID)
	if !ok || !partner.IsOnline {
		return
	}

	conversationID := msg.ConversationID

	s.mu.Lock()
	if prev := s.pending[conversationID]; prev != nil {
		prev.timer.Stop()
	}

	s.seq++
	seq := s.seq

	delay := s.cfg.ReplyBaseDelay
	if s.cfg.ReplyJitter > 0 {
		delay += time.Duration(s.rng.Int63n(int64(s.cfg.ReplyJitter)))
	}

	wasTyping := s.typing[conversationID]
	s.typing[conversationID] = true
	p := &pendingReply{seq: seq}
	p.timer = s.clock.AfterFunc(delay, func() {
		s.runReply(conversationID, partner, msg.Text, seq)
	})
	s.pending[conversationID] = p
	s.mu.Unlock()

	if !wasTyping {
		s.events.Publish(conversationID, Event{Type: EventTypingStarted, ConversationID: conversationID})
	}
}

// runReply calls the generator with a bounded timeout and appends the result.
// Failures clear the typing indicator and end the turn; there are no retries.
func (s *Simulator) runReply(conversationID int64, partner roster.Summary, userText string, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ReplyTimeout)
	defer cancel()

	text, err := s.replies.GenerateReply(ctx, partner, userText)

	s.mu.Lock()
	p := s.pending[conversationID]
	if p == nil || p.seq != seq {
		// Superseded by a newer send or cancelled while generating.
		s.mu.Unlock()
		return
	}
	delete(s.pending, conversationID)
	delete(s.typing, conversationID)
	s.mu.Unlock()

	s.events.Publish(conversationID, Event{Type: EventTypingStopped, ConversationID: conversationID})

	if err != nil {
		log.Printf("[delivery] reply generation failed for conversation=%d: %v", conversationID, err)
		return
	}

	reply, err := s.chats.AppendRemote(context.Background(), conversationID, text)
	if err != nil {
		log.Printf("[delivery] discarding unusable reply for conversation=%d: %v", conversationID, err)
		return
	}

	s.events.Publish(conversationID, Event{
		Type:           EventMessageAppended,
		ConversationID: conversationID,
		Message:        &reply,
	})
}
