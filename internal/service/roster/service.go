package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/elitechat/elite/backend/internal/model/roster"
)

var ErrNotFound = errors.New("discussion not found")

// Config controls the external profile source the roster is seeded from.
type Config struct {
	URL     string
	Size    int
	Timeout time.Duration
}

// Service owns the discussion roster. Profiles come from a randomuser.me
// compatible endpoint; last messages, activity times and presence flags are
// synthesized client-side, matching the mockup's behavior. The roster is
// read-mostly: the only mutation after a fetch is the unread flip when a
// conversation is opened.
type Service struct {
	cfg    Config
	client *http.Client
	now    func() time.Time

	mu        sync.RWMutex
	rng       *rand.Rand
	summaries []roster.Summary
	stories   []roster.Story
}

// NewService creates a roster service. No fetch happens until Refresh.
func NewService(cfg Config) *Service {
	if cfg.Size <= 0 {
		cfg.Size = 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var lastMessages = []string{
	"Hey, are you available for a quick call?",
	"Just sent you the documents",
	"Let's schedule a meeting next week",
	"Did you see my last message?",
	"Thanks for your help!",
	"Can we talk about the project?",
	"I'll call you later",
	"Check out this cool feature",
}

type randomUserResponse struct {
	Results []struct {
		Name struct {
			First string `json:"first"`
			Last  string `json:"last"`
		} `json:"name"`
		Picture struct {
			Medium string `json:"medium"`
		} `json:"picture"`
		Email string `json:"email"`
	} `json:"results"`
}

// Refresh replaces the roster with freshly fetched profiles. On failure the
// previous roster is kept so the list does not vanish behind a transient
// error.
func (s *Service) Refresh(ctx context.Context) error {
	endpoint, err := url.Parse(s.cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid roster url: %w", err)
	}
	query := endpoint.Query()
	query.Set("results", strconv.Itoa(s.cfg.Size))
	query.Set("inc", "name,picture,email")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build roster request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch roster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch roster: unexpected status %d", resp.StatusCode)
	}

	var payload randomUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode roster payload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries, s.stories = s.build(payload)
	return nil
}

// build synthesizes discussion previews and story entries from raw profiles.
// Callers must hold mu.
func (s *Service) build(payload randomUserResponse) ([]roster.Summary, []roster.Story) {
	now := s.now()
	summaries := make([]roster.Summary, 0, len(payload.Results))
	stories := []roster.Story{{
		ID:          roster.OwnStoryID,
		Name:        "My Status",
		TimeDisplay: roster.DisplayTime(now, now),
		Date:        now,
		Segments:    1,
	}}

	for idx, user := range payload.Results {
		name := user.Name.First + " " + user.Name.Last
		if user.Name.First == "" && user.Name.Last == "" {
			name = "Unknown User"
		}

		unread := s.rng.Float64() > 0.5
		at := s.randomTime(now)

		summary := roster.Summary{
			ID:          int64(idx) + 1,
			Name:        name,
			Avatar:      user.Picture.Medium,
			LastMessage: lastMessages[s.rng.Intn(len(lastMessages))],
			Time:        at,
			TimeDisplay: roster.DisplayTime(at, now),
			Unread:      unread,
			IsRead:      !unread && s.rng.Float64() > 0.5,
			IsOnline:    s.rng.Float64() > 0.5,
			HasStory:    s.rng.Float64() > 0.5,
		}
		summaries = append(summaries, summary)

		if summary.HasStory {
			stories = append(stories, roster.Story{
				ID:          summary.ID,
				Name:        summary.Name,
				Avatar:      summary.Avatar,
				Date:        at,
				TimeDisplay: summary.TimeDisplay,
				Segments:    1 + s.rng.Intn(4),
				Unread:      unread,
				IsRead:      summary.IsRead,
			})
		}
	}

	return summaries, stories
}

// randomTime picks a uniform instant within the last seven days.
func (s *Service) randomTime(now time.Time) time.Time {
	window := 7 * 24 * time.Hour
	return now.Add(-time.Duration(s.rng.Int63n(int64(window))))
}

// List returns a copy of the current roster.
func (s *Service) List() []roster.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]roster.Summary(nil), s.summaries...)
}

// FindByID looks up a discussion preview by id.
func (s *Service) FindByID(id int64) (roster.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.summaries {
		if entry.ID == id {
			return entry, true
		}
	}
	return roster.Summary{}, false
}

// MarkOpened flips the unread flags when the user opens a conversation.
func (s *Service) MarkOpened(id int64) (roster.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.summaries {
		if s.summaries[i].ID == id {
			s.summaries[i].Unread = false
			s.summaries[i].IsRead = true
			return s.summaries[i], nil
		}
	}
	return roster.Summary{}, ErrNotFound
}

// Touch records fresh activity on a conversation so the discussion list
// reorders behind it. Called when a message is sent or received.
func (s *Service) Touch(id int64, lastMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for i := range s.summaries {
		if s.summaries[i].ID == id {
			s.summaries[i].Time = now
			s.summaries[i].TimeDisplay = roster.DisplayTime(now, now)
			if lastMessage != "" {
				s.summaries[i].LastMessage = lastMessage
			}
			return
		}
	}
}

// Stories returns a copy of the story entries derived from the roster.
func (s *Service) Stories() []roster.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]roster.Story(nil), s.stories...)
}
