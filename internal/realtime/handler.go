package realtime

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/geochain/internal/dependencies/random"
	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/session"
)

// Handler upgrades HTTP requests to websocket connections and runs a
// session on each
type Handler struct {
	sessions *session.Handler
	random   random.Random
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new websocket Handler
func NewHandler(sessions *session.Handler, random random.Random, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		random:   random,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients are not served from a known origin
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger.With(slog.String("component", "websocket")),
	}
}

// ServeHTTP handles websocket upgrade requests. It blocks until the
// connection closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := model.ConnectionID(h.random.ID())
	client := NewClient(id, conn, h.logger)
	sess := h.sessions.Open(client)

	h.logger.Info("websocket connected",
		slog.String("connection_id", string(id)),
		slog.String("remote_addr", r.RemoteAddr))

	client.Run(r.Context(), sess)

	h.logger.Info("websocket disconnected", slog.String("connection_id", string(id)))
}
