package room

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/geochain/internal/dependencies/clock"
	"github.com/mcoot/geochain/internal/dependencies/random"
	"github.com/mcoot/geochain/internal/model"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = 6
	// CodeAlphabet is the characters used in room codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Registry owns every live room, keyed by room code. One Registry is built
// at start-up and shared by all sessions.
type Registry struct {
	cfg       Config
	validator PlaceValidator
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger

	mu    sync.RWMutex
	rooms map[model.RoomID]*Room
}

// NewRegistry creates an empty Registry
func NewRegistry(
	cfg Config,
	validator PlaceValidator,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		cfg:       cfg,
		validator: validator,
		clock:     clock,
		random:    random,
		logger:    logger.With(slog.String("component", "rooms")),
		rooms:     make(map[model.RoomID]*Room),
	}
}

// Create stores a new empty room under a fresh code and returns the code.
// Codes already held by a live room are redrawn.
func (reg *Registry) Create() model.RoomID {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var id model.RoomID
	for {
		id = model.RoomID(reg.random.String(CodeLength, CodeAlphabet))
		if _, exists := reg.rooms[id]; !exists {
			break
		}
	}

	reg.rooms[id] = New(id, reg.cfg, reg.validator, reg.clock)
	reg.logger.Info("room created",
		slog.String("room_id", string(id)),
		slog.Int("live_rooms", len(reg.rooms)))
	return id
}

// Get returns the room with the given code. Codes are matched case-insensitively.
func (reg *Registry) Get(id model.RoomID) (*Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, ok := reg.rooms[normalize(id)]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room, nil
}

// Remove deletes the room with the given code; removing an unknown code is a no-op
func (reg *Registry) Remove(id model.RoomID) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id = normalize(id)
	if _, ok := reg.rooms[id]; !ok {
		return
	}
	delete(reg.rooms, id)
	reg.logger.Info("room removed",
		slog.String("room_id", string(id)),
		slog.Int("live_rooms", len(reg.rooms)))
}

// Count returns the number of live rooms
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// PlayerCount returns the number of players across all live rooms
func (reg *Registry) PlayerCount() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	total := 0
	for _, room := range reg.rooms {
		total += room.PlayerCount()
	}
	return total
}

func normalize(id model.RoomID) model.RoomID {
	return model.RoomID(strings.ToUpper(strings.TrimSpace(string(id))))
}
