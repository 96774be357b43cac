package handler

import (
	"net/http"

	"github.com/mcoot/spellfight/internal/api/response"
)

// WordCounter reports how many dictionary words are loaded
type WordCounter interface {
	Len() int
}

// HealthHandler reports whether the game engine is serving
type HealthHandler struct {
	rooms RoomLister
	words WordCounter
}

// NewHealthHandler creates a health handler; words may be nil when the
// dictionary is remote
func NewHealthHandler(rooms RoomLister, words WordCounter) *HealthHandler {
	return &HealthHandler{rooms: rooms, words: words}
}

// Check handles GET /api/v1/health. It answers 503 once the room manager
// has stopped.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.Rooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	health := response.Health{Status: "ok", Rooms: len(rooms)}
	for _, room := range rooms {
		health.Players += len(room.Players)
	}
	if h.words != nil {
		health.DictionaryWords = h.words.Len()
	}
	response.JSON(w, http.StatusOK, health)
}
