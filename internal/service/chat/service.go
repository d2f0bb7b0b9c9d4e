package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/elitechat/elite/backend/internal/model/chat"
)

var (
	ErrEmptyMessage    = errors.New("message has no text or media")
	ErrMessageNotFound = errors.New("message not found")
	ErrUserRequired    = errors.New("user id is required")
)

// Service owns the per-conversation message logs. It is the single writer for
// message state: appends, delivery-status advances and reaction toggles all go
// through it, and callers only ever receive copies.
type Service struct {
	mu     sync.RWMutex
	logs   map[int64][]chat.Message
	lastID int64
	now    func() time.Time
}

// NewService bootstraps the in-memory message store.
func NewService() *Service {
	return &Service{
		logs: make(map[int64][]chat.Message),
		now:  time.Now,
	}
}

// ComposeAndSend appends a local-user message to the conversation. A send with
// neither text nor media is rejected with ErrEmptyMessage and leaves the log
// untouched.
func (s *Service) ComposeAndSend(_ context.Context, conversationID int64, text string, media []chat.MediaItem) (chat.Message, error) {
	if strings.TrimSpace(text) == "" && len(media) == 0 {
		return chat.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := chat.Message{
		ID:             s.nextID(),
		ConversationID: conversationID,
		Text:           text,
		Media:          append([]chat.MediaItem(nil), media...),
		Sender:         chat.SenderMe,
		Time:           s.now().Format("15:04"),
		Status:         chat.StatusSent,
		Reactions:      []chat.Reaction{},
	}

	s.logs[conversationID] = append(s.logs[conversationID], msg)
	return copyMessage(msg), nil
}

// AppendRemote appends a partner-authored message. Remote messages arrive
// already read; there is no receipt trail to walk for them.
func (s *Service) AppendRemote(_ context.Context, conversationID int64, text string) (chat.Message, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := chat.Message{
		ID:             s.nextID(),
		ConversationID: conversationID,
		Text:           text,
		Sender:         chat.SenderThem,
		Time:           s.now().Format("15:04"),
		Status:         chat.StatusRead,
		IsRead:         true,
		Reactions:      []chat.Reaction{},
	}

	s.logs[conversationID] = append(s.logs[conversationID], msg)
	return copyMessage(msg), nil
}

// AdvanceStatus moves a message's delivery state toward target. The walk is
// forward-only and steps through intermediate states, so delivered is never
// skipped and a stale ack behind the current state is a no-op. The returned
// flag reports whether anything changed.
func (s *Service) AdvanceStatus(_ context.Context, conversationID, messageID int64, target chat.Status) (chat.Message, bool, error) {
	if !target.Valid() {
		return chat.Message{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.logs[conversationID]
	if !ok {
		return chat.Message{}, false, ErrMessageNotFound
	}

	for i := range log {
		if log[i].ID != messageID {
			continue
		}

		changed := false
		for log[i].Status.Before(target) {
			log[i].Status = log[i].Status.Next()
			changed = true
		}
		log[i].IsRead = log[i].Status == chat.StatusRead
		return copyMessage(log[i]), changed, nil
	}

	return chat.Message{}, false, ErrMessageNotFound
}

// ToggleReaction applies the per-user single-reaction rule: a user holds at
// most one reaction per message. Re-tapping the same emoji removes it, a
// different emoji replaces the previous one.
func (s *Service) ToggleReaction(_ context.Context, conversationID, messageID int64, emoji, userID string) (chat.Message, error) {
	if userID == "" {
		return chat.Message{}, ErrUserRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.logs[conversationID]
	if !ok {
		return chat.Message{}, ErrMessageNotFound
	}

	for i := range log {
		if log[i].ID != messageID {
			continue
		}

		hadSame := removeUserReaction(&log[i], userID, emoji)
		if !hadSame {
			addUserReaction(&log[i], userID, emoji)
		}
		return copyMessage(log[i]), nil
	}

	return chat.Message{}, ErrMessageNotFound
}

// Messages returns a copy of the conversation log. Unknown conversations yield
// an empty log rather than an error: logs are created lazily on first send.
func (s *Service) Messages(_ context.Context, conversationID int64) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[conversationID]
	copied := make([]chat.Message, 0, len(log))
	for _, msg := range log {
		copied = append(copied, copyMessage(msg))
	}
	return copied
}

// FilterByText returns the messages whose text contains query,
// case-insensitively. An empty query matches everything. The result is
// recomputed on every call; nothing is cached.
func (s *Service) FilterByText(ctx context.Context, conversationID int64, query string) []chat.Message {
	all := s.Messages(ctx, conversationID)
	if query == "" {
		return all
	}

	needle := strings.ToLower(query)
	matched := make([]chat.Message, 0, len(all))
	for _, msg := range all {
		if strings.Contains(strings.ToLower(msg.Text), needle) {
			matched = append(matched, msg)
		}
	}
	return matched
}

// Clear drops the whole conversation log. This is the only deletion path.
func (s *Service) Clear(_ context.Context, conversationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, conversationID)
}

// nextID derives a creation-time id, bumping on collision so ids stay strictly
// increasing within the process. Callers must hold mu.
func (s *Service) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// removeUserReaction drops the user's existing reaction, if any, and reports
// whether it carried the same emoji being toggled.
func removeUserReaction(msg *chat.Message, userID, emoji string) bool {
	for i := range msg.Reactions {
		for j, uid := range msg.Reactions[i].UserIDs {
			if uid != userID {
				continue
			}

			same := msg.Reactions[i].Emoji == emoji
			msg.Reactions[i].UserIDs = append(msg.Reactions[i].UserIDs[:j], msg.Reactions[i].UserIDs[j+1:]...)
			msg.Reactions[i].Count--
			if msg.Reactions[i].Count == 0 {
				msg.Reactions = append(msg.Reactions[:i], msg.Reactions[i+1:]...)
			}
			return same
		}
	}
	return false
}

func addUserReaction(msg *chat.Message, userID, emoji string) {
	for i := range msg.Reactions {
		if msg.Reactions[i].Emoji == emoji {
			msg.Reactions[i].UserIDs = append(msg.Reactions[i].UserIDs, userID)
			msg.Reactions[i].Count++
			return
		}
	}
	msg.Reactions = append(msg.Reactions, chat.Reaction{
		Emoji:   emoji,
		Count:   1,
		UserIDs: []string{userID},
	})
}

func copyMessage(msg chat.Message) chat.Message {
	out := msg
	out.Media = append([]chat.MediaItem(nil), msg.Media...)
	out.Reactions = make([]chat.Reaction, len(msg.Reactions))
	for i, r := range msg.Reactions {
		out.Reactions[i] = r
		out.Reactions[i].UserIDs = append([]string(nil), r.UserIDs...)
	}
	return out
}
