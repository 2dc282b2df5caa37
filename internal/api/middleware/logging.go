package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/geochain/internal/middleware"
)

// RequestObserver records finished API requests
type RequestObserver = middleware.RequestObserver

// Logging creates request logging middleware for the API
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// RequestID tags API requests with an X-Request-ID
func RequestID() func(http.Handler) http.Handler {
	return middleware.RequestID()
}

// Instrument reports API requests to observer
func Instrument(observer RequestObserver) func(http.Handler) http.Handler {
	return middleware.Instrument(observer)
}
