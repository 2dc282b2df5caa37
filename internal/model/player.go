package model

// ConnectionID identifies a single client connection
type ConnectionID string

// Player is a participant in a room, owned by exactly one connection
type Player struct {
	ConnectionID ConnectionID `json:"id"`
	Username     string       `json:"username"`
	Score        int          `json:"score"`
}
