package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/spellfight/internal/api/handler"
	"github.com/mcoot/spellfight/internal/api/middleware"
	"github.com/mcoot/spellfight/internal/services/identity"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Auth     handler.Authenticator
	Resolver identity.Resolver
	Users    handler.UserStore
	Facebook handler.OAuthProvider
	Rooms    handler.RoomLister
	// Words is reported by the health check (optional)
	Words handler.WordCounter
	// Socket serves the websocket endpoint; it resolves its own token
	Socket http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))

	players := handler.NewPlayerHandler(cfg.Auth)
	users := handler.NewUserHandler(cfg.Users)
	rooms := handler.NewRoomHandler(cfg.Rooms)
	health := handler.NewHealthHandler(cfg.Rooms, cfg.Words)
	facebook := handler.NewFacebookHandler(cfg.Facebook, cfg.Users, cfg.Logger)

	requireAuth := middleware.Auth(cfg.Resolver)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", health.Check).Methods(http.MethodGet)

	// Signing in needs no token
	api.HandleFunc("/players/guest", players.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", players.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", players.Login).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(requireAuth)
	authed.HandleFunc("/players/me", players.GetMe).Methods(http.MethodGet)
	authed.HandleFunc("/players/logout", players.Logout).Methods(http.MethodPost)
	authed.HandleFunc("/users", users.Create).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id}", users.Get).Methods(http.MethodGet)
	authed.HandleFunc("/rooms", rooms.List).Methods(http.MethodGet)

	r.HandleFunc("/auth/facebook/callback", facebook.Callback).Methods(http.MethodGet)

	if cfg.Socket != nil {
		r.Handle("/ws", cfg.Socket).Methods(http.MethodGet)
	}

	return r
}
