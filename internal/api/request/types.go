package request

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mcoot/geochain/internal/api/apierr"
)

// RecentGamesQuery is the query for GET /games/recent
type RecentGamesQuery struct {
	// Limit is 0 when not given
	Limit int
}

// ParseRecentGamesQuery reads ?limit=N
func ParseRecentGamesQuery(r *http.Request) (RecentGamesQuery, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return RecentGamesQuery{}, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return RecentGamesQuery{}, apierr.NewInvalidRequestError("limit must be a positive integer")
	}
	return RecentGamesQuery{Limit: limit}, nil
}

// PlaceCheckQuery is the query for GET /places/check
type PlaceCheckQuery struct {
	Name string
}

// ParsePlaceCheckQuery reads ?name=...
func ParsePlaceCheckQuery(r *http.Request) (PlaceCheckQuery, error) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		return PlaceCheckQuery{}, apierr.NewInvalidRequestError("name is required")
	}
	return PlaceCheckQuery{Name: name}, nil
}
