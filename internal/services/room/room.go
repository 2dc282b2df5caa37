package room

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mcoot/geochain/internal/dependencies/clock"
	"github.com/mcoot/geochain/internal/model"
)

// PlaceValidator decides whether a submitted name is a real place
type PlaceValidator interface {
	IsValid(name string) bool
}

// Config holds the rules applied to every room
type Config struct {
	// MaxPlayers caps the number of players in a room. Zero means no cap.
	MaxPlayers int
	// HostOnlyStart restricts starting the game to the room's creator.
	HostOnlyStart bool
}

// DefaultConfig returns the default room rules: no player cap, anyone may start
func DefaultConfig() Config {
	return Config{}
}

// Room is a single game instance: its players, turn pointer and play history.
// All methods are safe for concurrent use; each runs under the room's own lock.
type Room struct {
	id        model.RoomID
	cfg       Config
	validator PlaceValidator
	clock     clock.Clock

	mu                 sync.Mutex
	players            []model.Player
	history            []model.HistoryEntry
	currentPlayerIndex int
	letterInPlay       string
	started            bool
	closed             bool
	creatorID          model.ConnectionID
	departed           []model.FinalScore
	createdAt          time.Time
	startedAt          time.Time
}

// New creates an empty room in the lobby state
func New(id model.RoomID, cfg Config, validator PlaceValidator, clk clock.Clock) *Room {
	return &Room{
		id:        id,
		cfg:       cfg,
		validator: validator,
		clock:     clk,
		createdAt: clk.Now(),
	}
}

// ID returns the room's code
func (r *Room) ID() model.RoomID {
	return r.id
}

// AddPlayer appends a player with a score of zero
func (r *Room) AddPlayer(connID model.ConnectionID, username string) (model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return model.Snapshot{}, model.ErrRoomNotFound
	}
	if r.started {
		return model.Snapshot{}, model.ErrGameAlreadyStarted
	}
	if r.indexOf(connID) >= 0 {
		return model.Snapshot{}, model.ErrAlreadyInRoom
	}
	if r.cfg.MaxPlayers > 0 && len(r.players) >= r.cfg.MaxPlayers {
		return model.Snapshot{}, model.ErrRoomFull
	}

	if len(r.players) == 0 {
		r.creatorID = connID
	}
	r.players = append(r.players, model.Player{
		ConnectionID: connID,
		Username:     username,
	})

	return r.snapshot(), nil
}

// Start moves the room from the lobby into play. Starting an already started
// room changes nothing and returns the current state.
func (r *Room) Start(connID model.ConnectionID) (model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return model.Snapshot{}, model.ErrRoomNotFound
	}
	if r.indexOf(connID) < 0 {
		return model.Snapshot{}, model.ErrPlayerNotFound
	}
	if r.cfg.HostOnlyStart && connID != r.creatorID {
		return model.Snapshot{}, model.ErrNotHost
	}

	if !r.started {
		r.started = true
		r.letterInPlay = ""
		r.startedAt = r.clock.Now()
	}

	return r.snapshot(), nil
}

// Submit plays placeName for the acting connection. Checks run in a fixed
// order and the first failure is reported; a rejected play changes nothing.
func (r *Room) Submit(connID model.ConnectionID, placeName string) (model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return model.Snapshot{}, model.ErrRoomNotFound
	}

	// 1. turn
	if len(r.players) == 0 || r.players[r.currentPlayerIndex].ConnectionID != connID {
		return model.Snapshot{}, model.ErrNotYourTurn
	}

	// 2. normalise
	place := strings.TrimSpace(placeName)

	// 3. validity
	if place == "" || !r.validator.IsValid(place) {
		return model.Snapshot{}, model.ErrInvalidPlace
	}

	// 4. letter constraint
	first, _ := utf8.DecodeRuneInString(place)
	if r.letterInPlay != "" && !strings.EqualFold(string(first), r.letterInPlay) {
		return model.Snapshot{}, model.ErrWrongLetter
	}

	// 5. duplicates
	for _, entry := range r.history {
		if strings.EqualFold(entry.Place, place) {
			return model.Snapshot{}, model.ErrAlreadyUsed
		}
	}

	last, _ := utf8.DecodeLastRuneInString(place)
	current := &r.players[r.currentPlayerIndex]

	r.letterInPlay = string(unicode.ToUpper(last))
	r.history = append(r.history, model.HistoryEntry{
		Player:    current.Username,
		Place:     place,
		Timestamp: r.clock.Now(),
	})
	current.Score++
	r.currentPlayerIndex = (r.currentPlayerIndex + 1) % len(r.players)

	return r.snapshot(), nil
}

// RemovePlayer removes the connection's player. When the removed player sat
// at or before the turn pointer, the pointer moves back one place so the same
// player stays next; a pointer already at zero is left alone. The returned
// bool reports that the room is now empty and closed, and should be discarded.
func (r *Room) RemovePlayer(connID model.ConnectionID) (model.Snapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(connID)
	if i < 0 {
		return model.Snapshot{}, false, model.ErrPlayerNotFound
	}

	removed := r.players[i]
	r.departed = append(r.departed, model.FinalScore{Username: removed.Username, Score: removed.Score})
	r.players = slices.Delete(r.players, i, i+1)

	if i <= r.currentPlayerIndex && r.currentPlayerIndex > 0 {
		r.currentPlayerIndex--
	}

	if len(r.players) == 0 {
		r.closed = true
		r.currentPlayerIndex = 0
		return r.snapshot(), true, nil
	}

	if removed.ConnectionID == r.creatorID {
		r.creatorID = r.players[0].ConnectionID
	}

	return r.snapshot(), false, nil
}

// Snapshot returns a copy of the room's current state
func (r *Room) Snapshot() model.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// PlayerCount returns the number of players currently in the room
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Summary builds the archive record for the room, ranking every player who
// took part (including those who left) by score
func (r *Room) Summary(endedAt time.Time) model.GameSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores := make([]model.FinalScore, 0, len(r.departed)+len(r.players))
	scores = append(scores, r.departed...)
	for _, p := range r.players {
		scores = append(scores, model.FinalScore{Username: p.Username, Score: p.Score})
	}
	slices.SortStableFunc(scores, func(a, b model.FinalScore) int {
		return cmp.Compare(b.Score, a.Score)
	})

	chain := make([]string, len(r.history))
	for i, entry := range r.history {
		chain[i] = entry.Place
	}

	return model.GameSummary{
		RoomID:    r.id,
		Scores:    scores,
		Chain:     chain,
		Plays:     len(r.history),
		CreatedAt: r.createdAt,
		StartedAt: r.startedAt,
		EndedAt:   endedAt,
	}
}

func (r *Room) indexOf(connID model.ConnectionID) int {
	return slices.IndexFunc(r.players, func(p model.Player) bool {
		return p.ConnectionID == connID
	})
}

func (r *Room) snapshot() model.Snapshot {
	return model.Snapshot{
		RoomID:             r.id,
		Players:            append(make([]model.Player, 0, len(r.players)), r.players...),
		History:            append(make([]model.HistoryEntry, 0, len(r.history)), r.history...),
		CurrentPlayerIndex: r.currentPlayerIndex,
		LetterInPlay:       r.letterInPlay,
		Started:            r.started,
	}
}
