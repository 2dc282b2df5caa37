package model

// EventType names a realtime protocol event
type EventType string

const (
	// Client to server
	EventCreateRoom  EventType = "createRoom"
	EventJoinRoom    EventType = "joinRoom"
	EventStartGame   EventType = "startGame"
	EventSubmitPlace EventType = "submitPlace"
	EventLeaveRoom   EventType = "leaveRoom"
	EventPing        EventType = "ping"

	// Server to client
	EventAck         EventType = "ack"
	EventUpdateRoom  EventType = "updateRoom"
	EventGameStarted EventType = "gameStarted"
	EventUpdateGame  EventType = "updateGame"
	EventPlayerLeft  EventType = "playerLeft"
	EventError       EventType = "error"
	EventPong        EventType = "pong"
)
