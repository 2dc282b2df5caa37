package handler

import (
	"net/http"

	"github.com/mcoot/geochain/internal/api/request"
	"github.com/mcoot/geochain/internal/api/response"
	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/services/places"
)

// PlaceHandler exposes the gazetteer
type PlaceHandler struct {
	places *places.Service
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(places *places.Service) *PlaceHandler {
	return &PlaceHandler{places: places}
}

// Check handles GET /api/v1/places/check?name=...
func (h *PlaceHandler) Check(w http.ResponseWriter, r *http.Request) {
	query, err := request.ParsePlaceCheckQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if !h.places.IsLoaded() {
		WriteError(w, model.ErrPlacesNotLoaded)
		return
	}

	response.JSON(w, http.StatusOK, response.PlaceCheck{
		Name:  query.Name,
		Valid: h.places.IsValid(query.Name),
	})
}
