package response

import (
	"time"

	"github.com/mcoot/geochain/internal/model"
)

// Health is the response for the liveness check
type Health struct {
	Status string `json:"status"`
}

// Stats reports live server activity
type Stats struct {
	ActiveRooms   int  `json:"active_rooms"`
	ActivePlayers int  `json:"active_players"`
	PlacesLoaded  bool `json:"places_loaded"`
	PlaceCount    int  `json:"place_count"`
}

// Player represents a player in API responses. Connection ids are not exposed.
type Player struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		Username: p.Username,
		Score:    p.Score,
	}
}

// Play is one accepted place in a room's history
type Play struct {
	Player    string    `json:"player"`
	Place     string    `json:"place"`
	Timestamp time.Time `json:"timestamp"`
}

// PlayFromModel converts model.HistoryEntry
func PlayFromModel(e model.HistoryEntry) Play {
	return Play{
		Player:    e.Player,
		Place:     e.Place,
		Timestamp: e.Timestamp,
	}
}

// Room represents a live room in API responses
type Room struct {
	Code          string   `json:"code"`
	Started       bool     `json:"started"`
	Players       []Player `json:"players"`
	History       []Play   `json:"history"`
	CurrentPlayer *string  `json:"current_player"`
	LetterInPlay  string   `json:"letter_in_play"`
}

// RoomFromModel converts a model.Snapshot
func RoomFromModel(s model.Snapshot) Room {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerFromModel(p)
	}

	history := make([]Play, len(s.History))
	for i, e := range s.History {
		history[i] = PlayFromModel(e)
	}

	var current *string
	if s.Started {
		if p, ok := s.CurrentPlayer(); ok {
			current = &p.Username
		}
	}

	return Room{
		Code:          string(s.RoomID),
		Started:       s.Started,
		Players:       players,
		History:       history,
		CurrentPlayer: current,
		LetterInPlay:  s.LetterInPlay,
	}
}

// FinalScore is a player's score in a finished game
type FinalScore struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// GameSummary represents a finished game
type GameSummary struct {
	Code      string       `json:"code"`
	Scores    []FinalScore `json:"scores"`
	Winner    *string      `json:"winner"`
	Chain     []string     `json:"chain"`
	Plays     int          `json:"plays"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   time.Time    `json:"ended_at"`
}

// GameSummaryFromModel converts model.GameSummary
func GameSummaryFromModel(g *model.GameSummary) GameSummary {
	scores := make([]FinalScore, len(g.Scores))
	for i, s := range g.Scores {
		scores[i] = FinalScore{Username: s.Username, Score: s.Score}
	}
	var winner *string
	if leader, ok := g.Leader(); ok {
		winner = &leader.Username
	}
	chain := g.Chain
	if chain == nil {
		chain = []string{}
	}
	return GameSummary{
		Code:      string(g.RoomID),
		Scores:    scores,
		Winner:    winner,
		Chain:     chain,
		Plays:     g.Plays,
		StartedAt: g.StartedAt,
		EndedAt:   g.EndedAt,
	}
}

// RecentGames lists finished games, newest first
type RecentGames struct {
	Games []GameSummary `json:"games"`
}

// PlaceCheck is the result of checking a name against the gazetteer
type PlaceCheck struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
}
