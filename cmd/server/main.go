package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/gatherly/api/internal/config"
	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/handler"
	"github.com/gatherly/api/internal/jobs"
	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/realtime"
	"github.com/gatherly/api/internal/repository"
	"github.com/gatherly/api/internal/service"
	"github.com/gatherly/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT verification
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	groupRepo := repository.NewGroupRepository(db)
	eventRepo := repository.NewEventRepository(db)
	pollRepo := repository.NewPollRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize services
	groupService := service.NewGroupService(service.GroupServiceConfig{
		GroupRepo:   groupRepo,
		MessageRepo: messageRepo,
	})
	eventService := service.NewEventService(service.EventServiceConfig{
		EventRepo: eventRepo,
		GroupRepo: groupRepo,
	})
	pollService := service.NewPollService(service.PollServiceConfig{
		PollRepo:  pollRepo,
		GroupRepo: groupRepo,
	})
	messageService := service.NewMessageService(service.MessageServiceConfig{
		MessageRepo: messageRepo,
		GroupRepo:   groupRepo,
	})

	// Initialize realtime fan-out
	hub := realtime.NewHub(logger)
	bridge := realtime.NewBridge(realtime.BridgeConfig{
		Hub:            hub,
		GroupService:   groupService,
		MessageService: messageService,
		PollService:    pollService,
		EventService:   eventService,
		Logger:         logger,
	})
	wsHandler := realtime.NewHandler(realtime.HandlerConfig{
		Hub:            hub,
		Bridge:         bridge,
		Verifier:       jwtService,
		Realtime:       cfg.Realtime,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	groupHandler := handler.NewGroupHandler(groupService)
	eventHandler := handler.NewEventHandler(eventService, hub)
	pollHandler := handler.NewPollHandler(pollService, hub)
	messageHandler := handler.NewMessageHandler(messageService, hub)

	// Background jobs
	sweeper := jobs.NewPollSweeper(pollService, bridge, time.Minute, logger)
	sweeper.Start()
	defer sweeper.Stop()

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Websocket endpoint (authenticates during the handshake)
	mux.HandleFunc("GET /v1/ws", wsHandler.ServeWS)

	authMiddleware := middleware.Auth(jwtService)

	// Group endpoints
	mux.Handle("GET /v1/groups", authMiddleware(http.HandlerFunc(groupHandler.List)))
	mux.Handle("POST /v1/groups", authMiddleware(http.HandlerFunc(groupHandler.Create)))
	mux.Handle("GET /v1/groups/{groupId}", authMiddleware(http.HandlerFunc(groupHandler.Get)))
	mux.Handle("PATCH /v1/groups/{groupId}", authMiddleware(http.HandlerFunc(groupHandler.Update)))
	mux.Handle("DELETE /v1/groups/{groupId}", authMiddleware(http.HandlerFunc(groupHandler.Delete)))
	mux.Handle("POST /v1/groups/{groupId}/join", authMiddleware(http.HandlerFunc(groupHandler.Join)))
	mux.Handle("POST /v1/groups/{groupId}/leave", authMiddleware(http.HandlerFunc(groupHandler.Leave)))
	mux.Handle("DELETE /v1/groups/{groupId}/members/{memberId}", authMiddleware(http.HandlerFunc(groupHandler.RemoveMember)))
	mux.Handle("POST /v1/groups/{groupId}/promote/{memberId}", authMiddleware(http.HandlerFunc(groupHandler.Promote)))
	mux.Handle("POST /v1/groups/{groupId}/demote/{memberId}", authMiddleware(http.HandlerFunc(groupHandler.Demote)))
	mux.Handle("POST /v1/groups/{groupId}/transfer-ownership/{newOwnerId}", authMiddleware(http.HandlerFunc(groupHandler.TransferOwnership)))
	mux.Handle("GET /v1/groups/{groupId}/requests", authMiddleware(http.HandlerFunc(groupHandler.ListJoinRequests)))
	mux.Handle("POST /v1/groups/{groupId}/requests/{userId}/approve", authMiddleware(http.HandlerFunc(groupHandler.ApproveJoinRequest)))
	mux.Handle("POST /v1/groups/{groupId}/requests/{userId}/deny", authMiddleware(http.HandlerFunc(groupHandler.DenyJoinRequest)))

	// Event endpoints
	mux.Handle("GET /v1/events", authMiddleware(http.HandlerFunc(eventHandler.List)))
	mux.Handle("POST /v1/events", authMiddleware(http.HandlerFunc(eventHandler.Create)))
	mux.Handle("GET /v1/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.Get)))
	mux.Handle("PATCH /v1/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.Update)))
	mux.Handle("DELETE /v1/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.Delete)))
	mux.Handle("PATCH /v1/events/{eventId}/cancel", authMiddleware(http.HandlerFunc(eventHandler.Cancel)))
	mux.Handle("POST /v1/events/{eventId}/rsvp", authMiddleware(http.HandlerFunc(eventHandler.RSVP)))
	mux.Handle("DELETE /v1/events/{eventId}/rsvp", authMiddleware(http.HandlerFunc(eventHandler.RemoveRSVP)))
	mux.Handle("GET /v1/events/{eventId}/rsvps", authMiddleware(http.HandlerFunc(eventHandler.ListRSVPs)))
	mux.Handle("GET /v1/groups/{groupId}/events", authMiddleware(http.HandlerFunc(eventHandler.ListByGroup)))

	// Poll endpoints
	mux.Handle("GET /v1/polls", authMiddleware(http.HandlerFunc(pollHandler.List)))
	mux.Handle("POST /v1/polls", authMiddleware(http.HandlerFunc(pollHandler.Create)))
	mux.Handle("GET /v1/polls/{pollId}", authMiddleware(http.HandlerFunc(pollHandler.Get)))
	mux.Handle("DELETE /v1/polls/{pollId}", authMiddleware(http.HandlerFunc(pollHandler.Delete)))
	mux.Handle("POST /v1/polls/{pollId}/vote", authMiddleware(http.HandlerFunc(pollHandler.Vote)))
	mux.Handle("DELETE /v1/polls/{pollId}/vote", authMiddleware(http.HandlerFunc(pollHandler.RemoveVote)))
	mux.Handle("PATCH /v1/polls/{pollId}/close", authMiddleware(http.HandlerFunc(pollHandler.Close)))
	mux.Handle("GET /v1/groups/{groupId}/polls", authMiddleware(http.HandlerFunc(pollHandler.ListByGroup)))

	// Message endpoints
	mux.Handle("POST /v1/messages", authMiddleware(http.HandlerFunc(messageHandler.Send)))
	mux.Handle("DELETE /v1/messages/{messageId}", authMiddleware(http.HandlerFunc(messageHandler.Delete)))
	mux.Handle("GET /v1/groups/{groupId}/messages", authMiddleware(http.HandlerFunc(messageHandler.History)))

	// CORS for browser clients
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		corsHandler.Handler,
		middleware.Timeout(cfg.Server.RequestTimeout),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
