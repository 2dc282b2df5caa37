package handler

import (
	"net/http"

	"github.com/mcoot/geochain/internal/api/apierr"
)

// WriteError writes an error response, mapping domain errors to HTTP statuses
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}
