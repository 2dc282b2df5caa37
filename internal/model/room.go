package model

import "time"

// RoomID is the short code players use to join a room
type RoomID string

// HistoryEntry records one accepted play
type HistoryEntry struct {
	Player    string    `json:"player"` // username at time of play
	Place     string    `json:"place"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is a point-in-time copy of a room's state, sent to clients
type Snapshot struct {
	RoomID             RoomID         `json:"roomId"`
	Players            []Player       `json:"players"`
	History            []HistoryEntry `json:"history"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	LetterInPlay       string         `json:"letterInPlay"`
	Started            bool           `json:"started"`
}

// CurrentPlayer returns the player whose turn it is, if any
func (s Snapshot) CurrentPlayer() (Player, bool) {
	if len(s.Players) == 0 || s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentPlayerIndex], true
}

// FindPlayer returns the player owned by the given connection
func (s Snapshot) FindPlayer(id ConnectionID) (Player, bool) {
	for _, p := range s.Players {
		if p.ConnectionID == id {
			return p, true
		}
	}
	return Player{}, false
}
