package status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	statusservice "github.com/elitechat/elite/backend/internal/service/status"
	"github.com/elitechat/elite/backend/pkg/utils"
)

// Handler exposes the status screen endpoints.
type Handler struct {
	statusSvc *statusservice.Service
}

// New creates the status handler.
func New(statusSvc *statusservice.Service) *Handler {
	return &Handler{statusSvc: statusSvc}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/status", h.handleList)
	r.Post("/status/{statusID}/seen", h.handleMarkSeen)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	unread, seen := h.statusSvc.Search(r.URL.Query().Get("q"))

	payload := map[string]any{
		"unread": unread,
		"seen":   seen,
	}
	if own, ok := h.statusSvc.Own(); ok {
		payload["mine"] = own
	}

	utils.RespondJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleMarkSeen(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "statusID"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid status id")
		return
	}

	story, err := h.statusSvc.MarkAsSeen(id)
	if errors.Is(err, statusservice.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "status not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, story)
}
