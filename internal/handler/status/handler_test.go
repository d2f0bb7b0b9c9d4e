package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	rostermodel "github.com/elitechat/elite/backend/internal/model/roster"
	statusservice "github.com/elitechat/elite/backend/internal/service/status"
)

func setupRouter() *chi.Mux {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	statusSvc := statusservice.NewService()
	statusSvc.Reload([]rostermodel.Story{
		{ID: rostermodel.OwnStoryID, Name: "My status", Date: now, Segments: 1},
		{ID: 1, Name: "Ada Lovelace", Date: now.Add(-time.Hour), Segments: 2, Unread: true},
		{ID: 2, Name: "Grace Hopper", Date: now.Add(-2 * time.Hour), Segments: 1, IsRead: true},
	})

	handler := New(statusSvc)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestListStatus(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Mine   *rostermodel.Story  `json:"mine"`
		Unread []rostermodel.Story `json:"unread"`
		Seen   []rostermodel.Story `json:"seen"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Mine == nil || body.Mine.ID != rostermodel.OwnStoryID {
		t.Fatalf("expected own story in response, got %+v", body.Mine)
	}
	if len(body.Unread) != 1 || body.Unread[0].ID != 1 {
		t.Fatalf("unexpected unread bucket: %+v", body.Unread)
	}
	if len(body.Seen) != 1 || body.Seen[0].ID != 2 {
		t.Fatalf("unexpected seen bucket: %+v", body.Seen)
	}
}

func TestListStatusWithQuery(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/status?q=grace", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	var body struct {
		Unread []rostermodel.Story `json:"unread"`
		Seen   []rostermodel.Story `json:"seen"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Unread) != 0 {
		t.Fatalf("expected empty unread bucket, got %+v", body.Unread)
	}
	if len(body.Seen) != 1 || body.Seen[0].Name != "Grace Hopper" {
		t.Fatalf("unexpected seen bucket: %+v", body.Seen)
	}
}

func TestMarkSeen(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/status/1/seen", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var story rostermodel.Story
	if err := json.Unmarshal(resp.Body.Bytes(), &story); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if story.Unread || !story.IsRead {
		t.Fatalf("expected story to be seen, got unread=%v isRead=%v", story.Unread, story.IsRead)
	}
}

func TestMarkSeenUnknownStory(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/status/99/seen", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
