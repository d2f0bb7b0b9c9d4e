package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/elitechat/elite/backend/internal/config"
	"github.com/elitechat/elite/backend/internal/handler"
	"github.com/elitechat/elite/backend/internal/handler/events"
	"github.com/elitechat/elite/backend/internal/service/ai"
	"github.com/elitechat/elite/backend/internal/service/chat"
	"github.com/elitechat/elite/backend/internal/service/delivery"
	"github.com/elitechat/elite/backend/internal/service/roster"
	"github.com/elitechat/elite/backend/internal/service/status"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize the roster. A failed initial fetch is not fatal: the list
	// stays empty until a refresh succeeds.
	rosterSvc := roster.NewService(roster.Config{
		URL:     cfg.Roster.URL,
		Size:    cfg.Roster.Size,
		Timeout: cfg.Roster.Timeout,
	})
	if err := rosterSvc.Refresh(ctx); err != nil {
		log.Printf("warning: initial roster fetch failed: %v", err)
	}

	statusSvc := status.NewService()
	statusSvc.Reload(rosterSvc.Stories())

	chatSvc := chat.NewService()

	// Initialize AI service
	var aiSvc *ai.Service
	if cfg.AI.Enabled() {
		aiSvc, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without auto-replies")
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, auto-replies disabled")
	}

	hub := events.NewHub()

	// A nil *ai.Service stored directly in the interface would not compare
	// equal to nil inside the simulator.
	var replies delivery.ReplyGenerator
	if aiSvc != nil {
		replies = aiSvc
	}

	sim := delivery.NewSimulator(delivery.Config{
		DeliveredDelay: cfg.Delivery.DeliveredDelay,
		ReadDelay:      cfg.Delivery.ReadDelay,
		ReplyBaseDelay: cfg.Delivery.ReplyBaseDelay,
		ReplyJitter:    cfg.Delivery.ReplyJitter,
		ReplyTimeout:   cfg.Delivery.ReplyTimeout,
	}, delivery.NewClock(), chatSvc, rosterSvc, replies, hub)

	router := handler.NewRouter(chatSvc, rosterSvc, statusSvc, sim, aiSvc, hub)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Elite backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
