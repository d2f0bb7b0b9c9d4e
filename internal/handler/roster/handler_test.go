package roster

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	rostermodel "github.com/elitechat/elite/backend/internal/model/roster"
	rosterservice "github.com/elitechat/elite/backend/internal/service/roster"
	statusservice "github.com/elitechat/elite/backend/internal/service/status"
)

const samplePayload = `{
	"results": [
		{"name": {"first": "Ada", "last": "Lovelace"}, "picture": {"medium": "https://cdn/ada.jpg"}, "email": "ada@example.com"},
		{"name": {"first": "Grace", "last": "Hopper"}, "picture": {"medium": "https://cdn/grace.jpg"}, "email": "grace@example.com"}
	]
}`

func setupRouter(t *testing.T, upstream http.HandlerFunc) (*chi.Mux, *rosterservice.Service) {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	rosterSvc := rosterservice.NewService(rosterservice.Config{URL: srv.URL, Size: 2, Timeout: time.Second})
	statusSvc := statusservice.NewService()
	handler := New(rosterSvc, statusSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, rosterSvc
}

func serveSample(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(samplePayload))
}

func TestListDiscussions(t *testing.T) {
	r, rosterSvc := setupRouter(t, serveSample)
	if err := rosterSvc.Refresh(context.Background()); err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/discussions", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Discussions []rostermodel.Summary `json:"discussions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Discussions) != 2 {
		t.Fatalf("expected 2 discussions, got %d", len(body.Discussions))
	}
}

func TestListDiscussionsUnknownFilter(t *testing.T) {
	r, _ := setupRouter(t, serveSample)

	req := httptest.NewRequest(http.MethodGet, "/discussions?filter=archived", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestRefreshReturnsRoster(t *testing.T) {
	r, _ := setupRouter(t, serveSample)

	req := httptest.NewRequest(http.MethodPost, "/discussions/refresh", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Discussions []rostermodel.Summary `json:"discussions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Discussions) != 2 {
		t.Fatalf("expected 2 discussions, got %d", len(body.Discussions))
	}
}

func TestRefreshUpstreamFailure(t *testing.T) {
	r, _ := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodPost, "/discussions/refresh", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestOpenDiscussion(t *testing.T) {
	r, rosterSvc := setupRouter(t, serveSample)
	if err := rosterSvc.Refresh(context.Background()); err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/discussions/1/open", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var summary rostermodel.Summary
	if err := json.Unmarshal(resp.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if summary.Unread || !summary.IsRead {
		t.Fatalf("expected opened discussion to be read, got unread=%v isRead=%v", summary.Unread, summary.IsRead)
	}
}

func TestOpenUnknownDiscussion(t *testing.T) {
	r, _ := setupRouter(t, serveSample)

	req := httptest.NewRequest(http.MethodPost, "/discussions/42/open", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
