package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/geochain/internal/api/apierr"
	"github.com/mcoot/geochain/internal/api/handler"
	"github.com/mcoot/geochain/internal/api/middleware"
	"github.com/mcoot/geochain/internal/api/response"
	"github.com/mcoot/geochain/internal/services/archive"
	"github.com/mcoot/geochain/internal/services/places"
	"github.com/mcoot/geochain/internal/services/room"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *room.Registry
	Archive  *archive.Service
	Places   *places.Service

	// Realtime serves the websocket endpoint at /ws
	Realtime http.Handler
	// Metrics serves the Prometheus endpoint at /metrics; nil disables it
	Metrics http.Handler
	// Requests observes every API request (optional)
	Requests middleware.RequestObserver
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.Registry)
	gameHandler := handler.NewGameHandler(cfg.Archive)
	placeHandler := handler.NewPlaceHandler(cfg.Places)
	statsHandler := handler.NewStatsHandler(cfg.Registry, cfg.Places)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID())
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	if cfg.Requests != nil {
		api.Use(middleware.Instrument(cfg.Requests))
	}

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/stats", statsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/recent", gameHandler.Recent).Methods(http.MethodGet)
	api.HandleFunc("/places/check", placeHandler.Check).Methods(http.MethodGet)

	// Websocket connections are long-lived; they are logged on connect and
	// disconnect by the realtime handler rather than per request
	if cfg.Realtime != nil {
		r.Handle("/ws", middleware.Recovery(cfg.Logger)(cfg.Realtime)).Methods(http.MethodGet)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewMethodNotAllowedError())
}
