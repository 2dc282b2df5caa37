package handler

import (
	"net/http"

	"github.com/mcoot/geochain/internal/api/request"
	"github.com/mcoot/geochain/internal/api/response"
	"github.com/mcoot/geochain/internal/services/archive"
)

// GameHandler serves the archive of finished games
type GameHandler struct {
	archive *archive.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(archive *archive.Service) *GameHandler {
	return &GameHandler{archive: archive}
}

// Recent handles GET /api/v1/games/recent
func (h *GameHandler) Recent(w http.ResponseWriter, r *http.Request) {
	query, err := request.ParseRecentGamesQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	summaries, err := h.archive.Recent(r.Context(), query.Limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	games := make([]response.GameSummary, len(summaries))
	for i, s := range summaries {
		games[i] = response.GameSummaryFromModel(s)
	}
	response.JSON(w, http.StatusOK, response.RecentGames{Games: games})
}
