package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter writing to stdout and stderr
func NewOutput(format string) *Output {
	return NewOutputTo(format, os.Stdout, os.Stderr)
}

// NewOutputTo creates an Output writing to the given writers
func NewOutputTo(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errW, string(data))
	} else {
		fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case Stats:
		o.printStats(v)
	case Room:
		o.printRoom(v)
	case RecentGames:
		o.printRecentGames(v)
	case PlaceCheck:
		o.printPlaceCheck(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type (matches API)
type HealthResult struct {
	Status string `json:"status"`
}

// Stats response type
type Stats struct {
	ActiveRooms   int  `json:"active_rooms"`
	ActivePlayers int  `json:"active_players"`
	PlacesLoaded  bool `json:"places_loaded"`
	PlaceCount    int  `json:"place_count"`
}

// Player response type
type Player struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Play response type
type Play struct {
	Player    string    `json:"player"`
	Place     string    `json:"place"`
	Timestamp time.Time `json:"timestamp"`
}

// Room response type
type Room struct {
	Code          string   `json:"code"`
	Started       bool     `json:"started"`
	Players       []Player `json:"players"`
	History       []Play   `json:"history"`
	CurrentPlayer *string  `json:"current_player"`
	LetterInPlay  string   `json:"letter_in_play"`
}

// FinalScore response type
type FinalScore struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// GameSummary response type
type GameSummary struct {
	Code      string       `json:"code"`
	Scores    []FinalScore `json:"scores"`
	Winner    *string      `json:"winner"`
	Chain     []string     `json:"chain"`
	Plays     int          `json:"plays"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   time.Time    `json:"ended_at"`
}

// RecentGames response type
type RecentGames struct {
	Games []GameSummary `json:"games"`
}

// PlaceCheck response type
type PlaceCheck struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

func (o *Output) printStats(s Stats) {
	fmt.Fprintf(o.w, "Active Rooms: %d\n", s.ActiveRooms)
	fmt.Fprintf(o.w, "Active Players: %d\n", s.ActivePlayers)
	if s.PlacesLoaded {
		fmt.Fprintf(o.w, "Places: %d loaded\n", s.PlaceCount)
	} else {
		fmt.Fprintln(o.w, "Places: not loaded")
	}
}

func (o *Output) printRoom(r Room) {
	fmt.Fprintf(o.w, "Room: %s\n", r.Code)
	if r.Started {
		fmt.Fprintln(o.w, "State: in play")
	} else {
		fmt.Fprintln(o.w, "State: waiting")
	}
	if r.LetterInPlay != "" {
		fmt.Fprintf(o.w, "Letter: %s\n", r.LetterInPlay)
	}

	fmt.Fprintf(o.w, "Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		turn := ""
		if r.CurrentPlayer != nil && *r.CurrentPlayer == p.Username {
			turn = " [to play]"
		}
		fmt.Fprintf(o.w, "  - %s: %d%s\n", p.Username, p.Score, turn)
	}

	if len(r.History) > 0 {
		places := make([]string, len(r.History))
		for i, h := range r.History {
			places[i] = h.Place
		}
		fmt.Fprintf(o.w, "Chain: %s\n", strings.Join(places, " -> "))
	}
}

func (o *Output) printRecentGames(g RecentGames) {
	if len(g.Games) == 0 {
		fmt.Fprintln(o.w, "No finished games")
		return
	}

	for i, game := range g.Games {
		if i > 0 {
			fmt.Fprintln(o.w)
		}
		fmt.Fprintf(o.w, "Game %s (%s, %d plays)\n", game.Code, game.EndedAt.Format("2006-01-02 15:04"), game.Plays)
		if game.Winner != nil {
			fmt.Fprintf(o.w, "Winner: %s\n", *game.Winner)
		} else {
			fmt.Fprintln(o.w, "Winner: none (tie)")
		}
		for _, s := range game.Scores {
			fmt.Fprintf(o.w, "  %s: %d points\n", s.Username, s.Score)
		}
		fmt.Fprintf(o.w, "Chain: %s\n", strings.Join(game.Chain, " -> "))
	}
}

func (o *Output) printPlaceCheck(p PlaceCheck) {
	if p.Valid {
		fmt.Fprintf(o.w, "%s is a known place\n", p.Name)
	} else {
		fmt.Fprintf(o.w, "%s is not a known place\n", p.Name)
	}
}
