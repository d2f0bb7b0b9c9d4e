package status

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/elitechat/elite/backend/internal/model/roster"
)

var ErrNotFound = errors.New("story not found")

// Service tracks which story entries are unseen vs already viewed. Entries
// move from the unread bucket to the seen bucket exactly once, the first time
// the user opens them.
type Service struct {
	mu     sync.RWMutex
	own    roster.Story
	hasOwn bool
	unread []roster.Story
	seen   []roster.Story
}

// NewService creates an empty status model. Reload populates it.
func NewService() *Service {
	return &Service{}
}

// Reload rebuilds the buckets from roster-derived stories. Both buckets are
// ordered by recency; the local user's own entry is kept aside and never
// appears in the seen bucket.
func (s *Service) Reload(stories []roster.Story) {
	sorted := append([]roster.Story(nil), stories...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hasOwn = false
	s.unread = s.unread[:0]
	s.seen = s.seen[:0]

	for _, story := range sorted {
		switch {
		case story.ID == roster.OwnStoryID:
			s.own = story
			s.hasOwn = true
		case story.Unread:
			s.unread = append(s.unread, story)
		default:
			s.seen = append(s.seen, story)
		}
	}
}

// Own returns the local user's story entry, if loaded.
func (s *Service) Own() (roster.Story, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.own, s.hasOwn
}

// Unread returns the unseen stories, most recent first.
func (s *Service) Unread() []roster.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]roster.Story(nil), s.unread...)
}

// Seen returns the already-viewed stories, most recently seen first.
func (s *Service) Seen() []roster.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]roster.Story(nil), s.seen...)
}

// MarkAsSeen flips a story from the unread bucket to the front of the seen
// bucket. Marking an already-seen story is a no-op, so the call is idempotent.
func (s *Service) MarkAsSeen(id int64) (roster.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.unread {
		if s.unread[i].ID != id {
			continue
		}

		story := s.unread[i]
		story.Unread = false
		story.IsRead = true
		s.unread = append(s.unread[:i], s.unread[i+1:]...)
		s.seen = append([]roster.Story{story}, s.seen...)
		return story, nil
	}

	for _, story := range s.seen {
		if story.ID == id {
			return story, nil
		}
	}

	return roster.Story{}, ErrNotFound
}

// Search filters both buckets independently by name. Empty buckets are a
// valid result, not an error.
func (s *Service) Search(query string) (unread, seen []roster.Story) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterByName(s.unread, query), filterByName(s.seen, query)
}

func filterByName(stories []roster.Story, query string) []roster.Story {
	if query == "" {
		return append([]roster.Story(nil), stories...)
	}

	needle := strings.ToLower(query)
	kept := make([]roster.Story, 0, len(stories))
	for _, story := range stories {
		if strings.Contains(strings.ToLower(story.Name), needle) {
			kept = append(kept, story)
		}
	}
	return kept
}
