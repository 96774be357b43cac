package response

import (
	"time"

	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/services/auth"
	"github.com/mcoot/spellfight/internal/services/game"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	Provider    string `json:"provider"`
	Email       string `json:"email,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest(),
		Provider:    p.Provider,
		Email:       p.Email,
		Avatar:      p.Avatar,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// User is a stored identity
type User struct {
	Player
	CreatedAt time.Time `json:"created_at"`
}

// UserFromModel converts a stored model.Player
func UserFromModel(p *model.Player) User {
	return User{
		Player:    PlayerFromModel(p),
		CreatedAt: p.CreatedAt,
	}
}

// CallbackResponse is returned after a completed OAuth login
type CallbackResponse struct {
	Player      Player `json:"player"`
	AccessToken string `json:"access_token"`
}

// Room represents a live room
type Room struct {
	ID       string   `json:"id"`
	Players  []Player `json:"players"`
	Capacity int      `json:"capacity"`
	Started  bool     `json:"started"`
	Stage    string   `json:"stage"`
	TurnSeat *int     `json:"turn_seat"`
}

// RoomFromSummary converts a game.RoomSummary
func RoomFromSummary(s game.RoomSummary) Room {
	players := make([]Player, len(s.Players))
	for i := range s.Players {
		players[i] = PlayerFromModel(&s.Players[i])
	}

	var turnSeat *int
	if s.Started {
		seat := s.TurnSeat
		turnSeat = &seat
	}

	return Room{
		ID:       s.ID,
		Players:  players,
		Capacity: s.Capacity,
		Started:  s.Started,
		Stage:    string(s.Stage),
		TurnSeat: turnSeat,
	}
}

// RoomList is the response for GET /api/v1/rooms
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// Health is the response for GET /api/v1/health
type Health struct {
	Status          string `json:"status"`
	Rooms           int    `json:"rooms"`
	Players         int    `json:"players"`
	DictionaryWords int    `json:"dictionary_words"`
}
