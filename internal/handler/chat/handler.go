package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/elitechat/elite/backend/internal/model/chat"
	aiservice "github.com/elitechat/elite/backend/internal/service/ai"
	chatservice "github.com/elitechat/elite/backend/internal/service/chat"
	"github.com/elitechat/elite/backend/internal/service/delivery"
	rosterservice "github.com/elitechat/elite/backend/internal/service/roster"
	"github.com/elitechat/elite/backend/pkg/utils"
)

// Handler exposes the conversation endpoints.
type Handler struct {
	chatSvc   *chatservice.Service
	rosterSvc *rosterservice.Service
	sim       *delivery.Simulator
	aiSvc     *aiservice.Service // may be nil when the model is not configured
}

// New creates the conversation handler.
func New(chatSvc *chatservice.Service, rosterSvc *rosterservice.Service, sim *delivery.Simulator, aiSvc *aiservice.Service) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		rosterSvc: rosterSvc,
		sim:       sim,
		aiSvc:     aiSvc,
	}
}

// RegisterRoutes registers the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/conversations/{conversationID}/messages", h.handleSend)
	r.Get("/conversations/{conversationID}/messages", h.handleList)
	r.Post("/conversations/{conversationID}/messages/{messageID}/reactions", h.handleToggleReaction)
	r.Delete("/conversations/{conversationID}/messages", h.handleClear)
	r.Get("/conversations/{conversationID}/typing", h.handleTyping)
	r.Post("/conversations/{conversationID}/close", h.handleClose)
}

func conversationID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	id, err := conversationID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	var payload struct {
		Text  string           `json:"text"`
		Media []chat.MediaItem `json:"media"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, item := range payload.Media {
		if item.Type != chat.MediaImage && item.Type != chat.MediaVideo {
			utils.RespondError(w, http.StatusBadRequest, "unsupported media type")
			return
		}
	}

	msg, err := h.chatSvc.ComposeAndSend(r.Context(), id, payload.Text, payload.Media)
	if errors.Is(err, chatservice.ErrEmptyMessage) {
		// An empty send is silently ignored, mirroring the UI behavior.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.sim.TrackSend(msg)
	h.rosterSvc.Touch(id, payload.Text)

	utils.RespondJSON(w, http.StatusCreated, msg)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	id, err := conversationID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	messages := h.chatSvc.FilterByText(r.Context(), id, r.URL.Query().Get("q"))
	utils.RespondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *Handler) handleToggleReaction(w http.ResponseWriter, r *http.Request) {
	id, err := conversationID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	messageID, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	var payload struct {
		Emoji  string `json:"emoji"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Emoji == "" {
		utils.RespondError(w, http.StatusBadRequest, "emoji is required")
		return
	}
	if payload.UserID == "" {
		payload.UserID = "me"
	}

	msg, err := h.chatSvc.ToggleReaction(r.Context(), id, messageID, payload.Emoji, payload.UserID)
	switch {
	case errors.Is(err, chatservice.ErrMessageNotFound):
		utils.RespondError(w, http.StatusNotFound, "message not found")
		return
	case err != nil:
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, msg)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	id, err := conversationID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	h.sim.Cancel(id)
	h.chatSvc.Clear(r.Context(), id)
	if h.aiSvc != nil {
		h.aiSvc.ForgetConversation(id)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTyping(w http.ResponseWriter, r *http.Request) {
	id, err := conversationID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]bool{"typing": h.sim.Typing(id)})
}

// handleClose is invoked when the user leaves a conversation: pending
// delivery and reply timers must not outlive the view.
func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	id, err := conversationID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	h.sim.Cancel(id)
	w.WriteHeader(http.StatusNoContent)
}
