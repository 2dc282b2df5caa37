package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/geochain/internal/api/response"
	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/services/room"
)

// RoomHandler serves read-only views of live rooms
type RoomHandler struct {
	registry *room.Registry
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(registry *room.Registry) *RoomHandler {
	return &RoomHandler{registry: registry}
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomID(mux.Vars(r)["code"])

	rm, err := h.registry.Get(code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm.Snapshot()))
}
