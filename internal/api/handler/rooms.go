package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/spellfight/internal/api/response"
	"github.com/mcoot/spellfight/internal/services/game"
)

// RoomLister reports the live rooms
type RoomLister interface {
	Rooms(ctx context.Context) ([]game.RoomSummary, error)
}

// RoomHandler handles room endpoints
type RoomHandler struct {
	rooms RoomLister
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms RoomLister) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.rooms.Rooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	rooms := make([]response.Room, len(summaries))
	for i, s := range summaries {
		rooms[i] = response.RoomFromSummary(s)
	}
	response.JSON(w, http.StatusOK, response.RoomList{Rooms: rooms})
}
