package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gatherly/api/internal/config"
	"github.com/gatherly/api/pkg/jwt"
)

// TokenVerifier validates bearer tokens for the websocket handshake
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// Handler upgrades HTTP requests to websocket connections
type Handler struct {
	hub      *Hub
	bridge   *Bridge
	verifier TokenVerifier
	cfg      config.RealtimeConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// HandlerConfig holds configuration for the websocket handler
type HandlerConfig struct {
	Hub            *Hub
	Bridge         *Bridge
	Verifier       TokenVerifier
	Realtime       config.RealtimeConfig
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewHandler creates a new websocket handler
func NewHandler(cfg HandlerConfig) *Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}

	return &Handler{
		hub:      cfg.Hub,
		bridge:   cfg.Bridge,
		verifier: cfg.Verifier,
		cfg:      cfg.Realtime,
		logger:   cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return allowed[origin] || allowed["*"]
			},
		},
	}
}

// ServeWS authenticates the handshake and starts the connection's pumps.
// Browsers cannot set headers on websocket requests, so the token is
// accepted from the query string as well as the Authorization header.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(uuid.New().String(), claims.UserID, conn, h.cfg, h.logger)
	h.hub.Register(client)

	h.logger.Info("websocket connected",
		slog.String("client_id", client.ID),
		slog.String("user_id", client.UserID))

	// the request context dies when this handler returns; the connection
	// outlives it
	go client.writePump()
	go client.readPump(context.Background(), h.hub, h.bridge)
}
