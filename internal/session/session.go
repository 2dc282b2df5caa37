package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/services/room"
)

// Session is one connection's view of the game: it is bound to at most one
// room at a time and resolves that room afresh on every event.
type Session struct {
	handler *Handler
	conn    Conn
	logger  *slog.Logger

	mu     sync.Mutex
	roomID model.RoomID
	closed bool
}

// RoomID returns the bound room, or "" when the session is not in a room
func (s *Session) RoomID() model.RoomID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// Handle processes one raw inbound frame
func (s *Session) Handle(ctx context.Context, raw []byte) {
	start := s.handler.clock.Now()

	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil || in.Type == "" {
		s.sendError("", model.ErrInvalidMessage)
		s.handler.metrics.ObserveEvent("invalid", s.handler.clock.Since(start))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	label := string(in.Type)
	switch in.Type {
	case model.EventCreateRoom:
		s.createRoom(in)
	case model.EventJoinRoom:
		s.joinRoom(in)
	case model.EventStartGame:
		s.startGame(in)
	case model.EventSubmitPlace:
		s.submitPlace(in)
	case model.EventLeaveRoom:
		s.leaveRoom(ctx, in)
	case model.EventPing:
		s.send(model.EventPong, in.ID, nil)
	default:
		label = "unknown"
		s.sendError(in.ID, model.ErrInvalidMessage)
	}

	s.handler.metrics.ObserveEvent(label, s.handler.clock.Since(start))
}

// Close leaves the bound room, if any. Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	if s.roomID != "" {
		s.leave(ctx)
	}
	s.handler.metrics.ConnectionClosed()
	s.logger.Debug("session closed")
}

func (s *Session) createRoom(in Inbound) {
	fail := func(err error) {
		e := toErrorPayload(err)
		s.send(model.EventAck, in.ID, CreateRoomAck{Success: false, Message: e.Message, Code: e.Code})
	}

	payload, err := decodePayload[CreateRoomPayload](in.Payload)
	if err != nil {
		fail(err)
		return
	}
	username, err := cleanUsername(payload.Username)
	if err != nil {
		fail(err)
		return
	}
	if s.roomID != "" {
		fail(model.ErrAlreadyInRoom)
		return
	}

	h := s.handler
	id := h.registry.Create()
	r, err := h.registry.Get(id)
	if err != nil {
		fail(err)
		return
	}
	snap, err := r.AddPlayer(s.conn.ID(), username)
	if err != nil {
		h.registry.Remove(id)
		fail(err)
		return
	}
	h.metrics.RoomOpened()

	s.bind(id)
	s.logger.Info("room created by player",
		slog.String("room_id", string(id)),
		slog.String("username", username))

	s.send(model.EventAck, in.ID, CreateRoomAck{RoomID: id, Success: true})
	h.broadcast(id, model.EventUpdateRoom, snap)
}

func (s *Session) joinRoom(in Inbound) {
	fail := func(err error) {
		e := toErrorPayload(err)
		s.send(model.EventAck, in.ID, JoinRoomAck{Success: false, Message: e.Message, Code: e.Code})
	}

	payload, err := decodePayload[JoinRoomPayload](in.Payload)
	if err != nil {
		fail(err)
		return
	}
	username, err := cleanUsername(payload.Username)
	if err != nil {
		fail(err)
		return
	}
	if s.roomID != "" {
		fail(model.ErrAlreadyInRoom)
		return
	}

	h := s.handler
	r, err := h.registry.Get(payload.RoomID)
	if err != nil {
		fail(err)
		return
	}
	snap, err := r.AddPlayer(s.conn.ID(), username)
	if err != nil {
		s.logger.Debug("join rejected",
			slog.String("room_id", string(r.ID())),
			slog.String("reason", err.Error()))
		fail(err)
		return
	}

	s.bind(r.ID())
	s.logger.Info("player joined room",
		slog.String("room_id", string(r.ID())),
		slog.String("username", username),
		slog.Int("players", len(snap.Players)))

	s.send(model.EventAck, in.ID, JoinRoomAck{Success: true, RoomData: &snap})
	h.broadcast(r.ID(), model.EventUpdateRoom, snap)
}

func (s *Session) startGame(in Inbound) {
	r, err := s.boundRoom()
	if err != nil {
		s.sendError(in.ID, err)
		return
	}

	snap, err := r.Start(s.conn.ID())
	if err != nil {
		s.sendError(in.ID, err)
		return
	}

	s.logger.Info("game started", slog.String("room_id", string(r.ID())))
	s.handler.broadcast(r.ID(), model.EventGameStarted, snap)
}

func (s *Session) submitPlace(in Inbound) {
	payload, err := decodePayload[SubmitPlacePayload](in.Payload)
	if err != nil {
		s.sendError(in.ID, err)
		return
	}

	r, err := s.boundRoom()
	if err != nil {
		s.sendError(in.ID, err)
		return
	}

	// The room accepts plays in any phase; the lobby check lives here.
	if current := r.Snapshot(); !current.Started {
		s.sendError(in.ID, model.ErrGameNotStarted)
		return
	}

	snap, err := r.Submit(s.conn.ID(), payload.PlaceName)
	s.handler.metrics.Submission(err == nil)
	if err != nil {
		s.logger.Debug("submission rejected",
			slog.String("room_id", string(r.ID())),
			slog.String("place", payload.PlaceName),
			slog.String("reason", err.Error()))
		s.sendError(in.ID, err)
		return
	}

	s.handler.broadcast(r.ID(), model.EventUpdateGame, snap)
}

func (s *Session) leaveRoom(ctx context.Context, in Inbound) {
	if s.roomID == "" {
		e := toErrorPayload(model.ErrNotInRoom)
		s.send(model.EventAck, in.ID, LeaveRoomAck{Success: false, Message: e.Message, Code: e.Code})
		return
	}

	s.leave(ctx)
	s.send(model.EventAck, in.ID, LeaveRoomAck{Success: true})
}

// leave unbinds the session and removes its player, closing the room when
// it was the last one. Callers hold s.mu.
func (s *Session) leave(ctx context.Context) {
	h := s.handler
	id := s.roomID
	s.roomID = ""
	h.channels.Leave(id, s.conn)

	r, err := h.registry.Get(id)
	if err != nil {
		return
	}

	snap, empty, err := r.RemovePlayer(s.conn.ID())
	if err != nil {
		if !errors.Is(err, model.ErrPlayerNotFound) {
			s.logger.Error("failed to remove player",
				slog.String("room_id", string(id)),
				slog.String("error", err.Error()))
		}
		return
	}

	s.logger.Info("player left room", slog.String("room_id", string(id)))

	if empty {
		h.closeRoom(ctx, r)
		return
	}
	h.broadcast(id, model.EventPlayerLeft, snap)
}

func (s *Session) bind(id model.RoomID) {
	s.roomID = id
	s.handler.channels.Join(id, s.conn)
}

// boundRoom resolves the session's room. Callers hold s.mu.
func (s *Session) boundRoom() (*room.Room, error) {
	if s.roomID == "" {
		return nil, model.ErrNotInRoom
	}
	return s.handler.registry.Get(s.roomID)
}

func (s *Session) send(eventType model.EventType, requestID string, payload any) {
	frame, err := s.handler.encode(eventType, requestID, payload)
	if err != nil {
		s.logger.Error("failed to encode frame",
			slog.String("type", string(eventType)),
			slog.String("error", err.Error()))
		return
	}
	if err := s.conn.Send(frame); err != nil {
		s.logger.Warn("frame dropped",
			slog.String("type", string(eventType)),
			slog.String("error", err.Error()))
	}
}

func (s *Session) sendError(requestID string, err error) {
	s.send(model.EventError, requestID, toErrorPayload(err))
}
