package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/spellfight/internal/api/request"
	"github.com/mcoot/spellfight/internal/api/response"
	"github.com/mcoot/spellfight/internal/model"
)

// UserStore finds and creates stored identities
type UserStore interface {
	Get(ctx context.Context, id model.PlayerID) (*model.Player, error)
	Create(ctx context.Context, player model.Player) (bool, error)
}

// UserHandler handles stored identity endpoints
type UserHandler struct {
	users UserStore
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	player, err := h.users.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(player))
}

// Create handles POST /api/v1/users. An existing identity is left as is.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.ID == "" {
		WriteError(w, NewInvalidRequestError("id is required"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	player := model.Player{
		ID:          model.PlayerID(req.ID),
		DisplayName: req.Name,
		Email:       req.Email,
		Avatar:      req.Photo,
		Provider:    req.Provider,
	}
	created, err := h.users.Create(r.Context(), player)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(w, status, response.PlayerFromModel(&player))
}
