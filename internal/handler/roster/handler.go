package roster

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	rosterservice "github.com/elitechat/elite/backend/internal/service/roster"
	statusservice "github.com/elitechat/elite/backend/internal/service/status"
	"github.com/elitechat/elite/backend/pkg/utils"
)

// Handler exposes the discussion list endpoints.
type Handler struct {
	rosterSvc *rosterservice.Service
	statusSvc *statusservice.Service
}

// New creates the discussion handler.
func New(rosterSvc *rosterservice.Service, statusSvc *statusservice.Service) *Handler {
	return &Handler{rosterSvc: rosterSvc, statusSvc: statusSvc}
}

// RegisterRoutes registers the discussion routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/discussions", h.handleList)
	r.Post("/discussions/refresh", h.handleRefresh)
	r.Post("/discussions/{discussionID}/open", h.handleOpen)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := rosterservice.ParseFilter(r.URL.Query().Get("filter"))
	if errors.Is(err, rosterservice.ErrUnknownFilter) {
		utils.RespondError(w, http.StatusBadRequest, "unknown filter")
		return
	}

	view := rosterservice.View(h.rosterSvc.List(), filter, r.URL.Query().Get("q"))
	utils.RespondJSON(w, http.StatusOK, map[string]any{"discussions": view})
}

// handleRefresh pulls a fresh roster and rebuilds the status buckets from it.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.rosterSvc.Refresh(r.Context()); err != nil {
		log.Printf("[roster] refresh failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "roster unavailable")
		return
	}

	h.statusSvc.Reload(h.rosterSvc.Stories())
	utils.RespondJSON(w, http.StatusOK, map[string]any{"discussions": h.rosterSvc.List()})
}

func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "discussionID"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid discussion id")
		return
	}

	summary, err := h.rosterSvc.MarkOpened(id)
	if errors.Is(err, rosterservice.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "discussion not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, summary)
}
