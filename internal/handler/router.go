package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/elitechat/elite/backend/internal/handler/chat"
	"github.com/elitechat/elite/backend/internal/handler/events"
	rosterHandler "github.com/elitechat/elite/backend/internal/handler/roster"
	statusHandler "github.com/elitechat/elite/backend/internal/handler/status"
	middlewarePkg "github.com/elitechat/elite/backend/internal/middleware"
	aiService "github.com/elitechat/elite/backend/internal/service/ai"
	chatService "github.com/elitechat/elite/backend/internal/service/chat"
	"github.com/elitechat/elite/backend/internal/service/delivery"
	rosterService "github.com/elitechat/elite/backend/internal/service/roster"
	statusService "github.com/elitechat/elite/backend/internal/service/status"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	chatSvc *chatService.Service,
	rosterSvc *rosterService.Service,
	statusSvc *statusService.Service,
	sim *delivery.Simulator,
	aiSvc *aiService.Service,
	hub *events.Hub,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	conversations := chatHandler.New(chatSvc, rosterSvc, sim, aiSvc)
	discussions := rosterHandler.New(rosterSvc, statusSvc)
	statuses := statusHandler.New(statusSvc)
	streams := events.New(hub)

	r.Route("/api", func(api chi.Router) {
		conversations.RegisterRoutes(api)
		discussions.RegisterRoutes(api)
		statuses.RegisterRoutes(api)
		streams.RegisterRoutes(api)
	})

	return r
}
