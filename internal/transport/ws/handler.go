package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/services/game"
	"github.com/mcoot/spellfight/internal/services/identity"
)

// Rememberer records identities seen on the socket
type Rememberer interface {
	Remember(player model.Player)
}

// Handler upgrades authenticated requests and runs a game session per socket
type Handler struct {
	resolver identity.Resolver
	users    Rememberer
	sessions *game.SessionFactory
	upgrader websocket.Upgrader
	cfg      Config
	logger   *slog.Logger
}

// NewHandler creates a new websocket Handler
func NewHandler(
	resolver identity.Resolver,
	users Rememberer,
	sessions *game.SessionFactory,
	cfg Config,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		resolver: resolver,
		users:    users,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		cfg:    cfg,
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	player, err := h.resolver.Resolve(r.Context(), Token(r))
	if err != nil {
		if errors.Is(err, model.ErrIdentityUnavailable) {
			http.Error(w, "identity provider unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("player_id", string(player.ID)), slog.Any("error", err))
		return
	}

	h.users.Remember(player)

	logger := h.logger.With(slog.String("player_id", string(player.ID)))
	logger.Info("client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	session := h.sessions.Create(player)
	go session.Run(ctx)

	c := newConn(socket, session, h.cfg, logger)
	go c.writePump()
	c.readPump()

	session.Close()
	<-c.written
	logger.Info("client disconnected")
}

// Token extracts a bearer token from the Authorization header, falling back
// to the token query parameter for clients that cannot set headers
func Token(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}
