package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/spellfight/internal/api/response"
	"github.com/mcoot/spellfight/internal/model"
)

// OAuthProvider completes an OAuth login
type OAuthProvider interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
	Resolve(ctx context.Context, token string) (model.Player, error)
}

// FacebookHandler handles the Facebook login callback
type FacebookHandler struct {
	provider OAuthProvider
	users    UserStore
	logger   *slog.Logger
}

// NewFacebookHandler creates a new Facebook callback handler
func NewFacebookHandler(provider OAuthProvider, users UserStore, logger *slog.Logger) *FacebookHandler {
	return &FacebookHandler{
		provider: provider,
		users:    users,
		logger:   logger,
	}
}

// Callback handles GET /auth/facebook/callback?code=
func (h *FacebookHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		WriteError(w, NewInvalidRequestError("code is required"))
		return
	}

	token, err := h.provider.ExchangeCode(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.provider.Resolve(r.Context(), token)
	if err != nil {
		WriteError(w, err)
		return
	}

	if _, err := h.users.Create(r.Context(), player); err != nil {
		h.logger.Warn("failed to save player",
			slog.String("player_id", string(player.ID)),
			slog.Any("error", err),
		)
	}

	response.JSON(w, http.StatusOK, response.CallbackResponse{
		Player:      response.PlayerFromModel(&player),
		AccessToken: token,
	})
}
