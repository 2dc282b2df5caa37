package model

import "time"

// FinalScore is a player's score when their room closed
type FinalScore struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// GameSummary is the archived record of a room, written when its last player leaves
type GameSummary struct {
	RoomID    RoomID       `json:"roomId"`
	Scores    []FinalScore `json:"scores"`
	Chain     []string     `json:"chain"` // accepted places in play order
	Plays     int          `json:"plays"`
	CreatedAt time.Time    `json:"createdAt"`
	StartedAt time.Time    `json:"startedAt"`
	EndedAt   time.Time    `json:"endedAt"`
}

// Leader returns the highest scoring player, or false on a tie or empty summary
func (g *GameSummary) Leader() (FinalScore, bool) {
	var best FinalScore
	tied := false
	for i, s := range g.Scores {
		switch {
		case i == 0 || s.Score > best.Score:
			best = s
			tied = false
		case s.Score == best.Score:
			tied = true
		}
	}
	if len(g.Scores) == 0 || tied {
		return FinalScore{}, false
	}
	return best, true
}
