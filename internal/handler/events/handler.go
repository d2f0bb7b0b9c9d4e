package events

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/elitechat/elite/backend/pkg/utils"
)

const writeTimeout = 10 * time.Second

// Handler exposes the conversation event stream over WebSocket, with an SSE
// fallback for clients that cannot upgrade.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// New creates the events handler bound to a hub.
func New(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the event-stream endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events/{conversationID}", h.handleWebSocket)
	r.Get("/stream/{conversationID}", h.handleSSE)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[events] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	stream, cancel := h.hub.Subscribe(conversationID)
	defer cancel()

	// The read loop only exists to notice the peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	log.Printf("[events] websocket open for conversation=%d", conversationID)
	for event := range stream {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("[events] write failed for conversation=%d: %v", conversationID, err)
			return
		}
	}
}

func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	conversationID, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	stream, cancel := h.hub.Subscribe(conversationID)
	defer cancel()

	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "status",
		"message": "stream established",
	})

	ticker := time.NewTicker(8 * time.Second)
	defer ticker.Stop()

	ctx := r.Context()
	log.Printf("[events] sse open for conversation=%d", conversationID)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[events] sse closed for conversation=%d", conversationID)
			return
		case event, ok := <-stream:
			if !ok {
				return
			}
			utils.SendSSEEvent(w, flusher, string(event.Type), event)
		case t := <-ticker.C:
			utils.SendSSEChunk(w, flusher, map[string]any{
				"event": "heartbeat",
				"time":  t.UTC().Format(time.RFC3339),
			})
		}
	}
}
