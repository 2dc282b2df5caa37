package handler

import (
	"net/http"

	"github.com/mcoot/geochain/internal/api/response"
	"github.com/mcoot/geochain/internal/services/places"
	"github.com/mcoot/geochain/internal/services/room"
)

// StatsHandler reports live activity
type StatsHandler struct {
	registry *room.Registry
	places   *places.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(registry *room.Registry, places *places.Service) *StatsHandler {
	return &StatsHandler{registry: registry, places: places}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Stats{
		ActiveRooms:   h.registry.Count(),
		ActivePlayers: h.registry.PlayerCount(),
		PlacesLoaded:  h.places.IsLoaded(),
		PlaceCount:    h.places.Count(),
	})
}
