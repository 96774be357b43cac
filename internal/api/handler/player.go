package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/spellfight/internal/api/middleware"
	"github.com/mcoot/spellfight/internal/api/request"
	"github.com/mcoot/spellfight/internal/api/response"
	"github.com/mcoot/spellfight/internal/services/auth"
)

// Authenticator signs players in and out
type Authenticator interface {
	Guest(ctx context.Context, profile auth.Profile) (*auth.Session, error)
	Register(ctx context.Context, creds auth.Credentials, profile auth.Profile) (*auth.Session, error)
	Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error)
	Logout(token string)
}

// PlayerHandler serves sign-in and the caller's own identity
type PlayerHandler struct {
	auth Authenticator
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(auth Authenticator) *PlayerHandler {
	return &PlayerHandler{auth: auth}
}

func toProfile(p request.Profile) auth.Profile {
	return auth.Profile{Name: p.Name, Email: p.Email, Avatar: p.Avatar}
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.GuestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.auth.Guest(r.Context(), toProfile(req.Profile))
	writeSession(w, http.StatusCreated, session, err)
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	creds := auth.Credentials{Username: req.Username, Password: req.Password}
	session, err := h.auth.Register(r.Context(), creds, toProfile(req.Profile))
	writeSession(w, http.StatusCreated, session, err)
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}

	session, err := h.auth.Login(r.Context(), auth.Credentials{Username: req.Username, Password: req.Password})
	writeSession(w, http.StatusOK, session, err)
}

// Logout handles POST /api/v1/players/logout. Provider tokens are not ours
// to revoke, so for them this only acknowledges.
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(middleware.GetToken(r.Context()))
	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

func writeSession(w http.ResponseWriter, status int, session *auth.Session, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.AuthResponseFromSession(session))
}
