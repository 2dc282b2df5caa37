package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrAlreadyInRoom      = errors.New("connection is already in a room")
	ErrNotInRoom          = errors.New("connection is not in a room")
	ErrNotHost            = errors.New("only the room creator can start the game")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameNotStarted     = errors.New("game has not started")

	// Turn errors
	ErrNotYourTurn  = errors.New("not your turn")
	ErrInvalidPlace = errors.New("not a recognised place")
	ErrWrongLetter  = errors.New("place does not start with the letter in play")
	ErrAlreadyUsed  = errors.New("place has already been played")

	// Message errors
	ErrInvalidMessage  = errors.New("invalid message")
	ErrInvalidUsername = errors.New("username is required")

	// Gazetteer errors
	ErrPlacesNotLoaded = errors.New("places not loaded")
)
