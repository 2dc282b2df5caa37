package session

import (
	"errors"

	"github.com/mcoot/geochain/internal/model"
)

// Error codes carried by error frames and failed acks
const (
	CodeInvalidMessage     = "INVALID_MESSAGE"
	CodeInvalidUsername    = "INVALID_USERNAME"
	CodeRoomNotFound       = "ROOM_NOT_FOUND"
	CodeRoomFull           = "ROOM_FULL"
	CodeAlreadyInRoom      = "ALREADY_IN_ROOM"
	CodeNotInRoom          = "NOT_IN_ROOM"
	CodeNotHost            = "NOT_HOST"
	CodeGameAlreadyStarted = "GAME_ALREADY_STARTED"
	CodeGameNotStarted     = "GAME_NOT_STARTED"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeInvalidPlace       = "INVALID_PLACE"
	CodeWrongLetter        = "WRONG_LETTER"
	CodeAlreadyUsed        = "ALREADY_USED"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// toErrorPayload converts an error to the code and reason shown to the client
func toErrorPayload(err error) ErrorPayload {
	switch {
	case errors.Is(err, model.ErrInvalidMessage):
		return ErrorPayload{"Invalid message", CodeInvalidMessage}
	case errors.Is(err, model.ErrInvalidUsername):
		return ErrorPayload{"Username is required", CodeInvalidUsername}
	case errors.Is(err, model.ErrRoomNotFound):
		return ErrorPayload{"Room not found", CodeRoomNotFound}
	case errors.Is(err, model.ErrRoomFull):
		return ErrorPayload{"Room is full", CodeRoomFull}
	case errors.Is(err, model.ErrAlreadyInRoom):
		return ErrorPayload{"Already in a room, leave it first", CodeAlreadyInRoom}
	case errors.Is(err, model.ErrNotInRoom):
		return ErrorPayload{"Not in a room", CodeNotInRoom}
	case errors.Is(err, model.ErrNotHost):
		return ErrorPayload{"Only the room creator can start the game", CodeNotHost}
	case errors.Is(err, model.ErrGameAlreadyStarted):
		return ErrorPayload{"Game has already started", CodeGameAlreadyStarted}
	case errors.Is(err, model.ErrGameNotStarted):
		return ErrorPayload{"Game has not started", CodeGameNotStarted}
	case errors.Is(err, model.ErrNotYourTurn):
		return ErrorPayload{"Not your turn", CodeNotYourTurn}
	case errors.Is(err, model.ErrInvalidPlace):
		return ErrorPayload{"Not a recognised place", CodeInvalidPlace}
	case errors.Is(err, model.ErrWrongLetter):
		return ErrorPayload{"Place must start with the letter in play", CodeWrongLetter}
	case errors.Is(err, model.ErrAlreadyUsed):
		return ErrorPayload{"Place has already been played", CodeAlreadyUsed}
	case errors.Is(err, model.ErrPlayerNotFound):
		return ErrorPayload{"Player not found", CodePlayerNotFound}
	default:
		return ErrorPayload{"Internal error", CodeInternalError}
	}
}
