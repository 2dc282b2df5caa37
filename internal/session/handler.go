package session

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/geochain/internal/dependencies/clock"
	"github.com/mcoot/geochain/internal/metrics"
	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/services/archive"
	"github.com/mcoot/geochain/internal/services/room"
)

// Handler turns client events into room operations and room state into
// frames. It is shared by every connection; per-connection state lives in
// the Session returned by Open.
type Handler struct {
	registry *room.Registry
	channels Channels
	archive  *archive.Service
	metrics  *metrics.Metrics
	clock    clock.Clock
	logger   *slog.Logger
}

// NewHandler creates a new Handler
func NewHandler(
	registry *room.Registry,
	channels Channels,
	archive *archive.Service,
	metrics *metrics.Metrics,
	clock clock.Clock,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		registry: registry,
		channels: channels,
		archive:  archive,
		metrics:  metrics,
		clock:    clock,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// Open starts a session for a newly accepted connection
func (h *Handler) Open(conn Conn) *Session {
	h.metrics.ConnectionOpened()
	s := &Session{
		handler: h,
		conn:    conn,
		logger:  h.logger.With(slog.String("connection_id", string(conn.ID()))),
	}
	s.logger.Debug("session opened")
	return s
}

// encode builds an outbound frame
func (h *Handler) encode(eventType model.EventType, requestID string, payload any) ([]byte, error) {
	return json.Marshal(Outbound{
		Type:      eventType,
		ID:        requestID,
		Payload:   payload,
		Timestamp: h.clock.Now(),
	})
}

// broadcast sends a snapshot event to every connection in the room
func (h *Handler) broadcast(roomID model.RoomID, eventType model.EventType, snap model.Snapshot) {
	frame, err := h.encode(eventType, "", snap)
	if err != nil {
		h.logger.Error("failed to encode broadcast",
			slog.String("room_id", string(roomID)),
			slog.String("type", string(eventType)),
			slog.String("error", err.Error()))
		return
	}
	h.channels.Broadcast(roomID, frame)
}

// closeRoom tears down a room whose last player has left and archives its game
func (h *Handler) closeRoom(ctx context.Context, r *room.Room) {
	id := r.ID()

	// Drop the channel before releasing the code so a new room under the
	// same code never shares it.
	h.channels.Close(id)
	h.registry.Remove(id)
	h.metrics.RoomClosed()

	stored, err := h.archive.Record(ctx, r.Summary(h.clock.Now()))
	if err != nil {
		h.logger.Error("failed to archive game",
			slog.String("room_id", string(id)),
			slog.String("error", err.Error()))
		return
	}
	if stored {
		h.metrics.GameArchived()
	}
}
