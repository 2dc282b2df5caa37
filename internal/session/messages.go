package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mcoot/geochain/internal/model"
)

// Inbound is a frame received from a client
type Inbound struct {
	Type    model.EventType `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound is a frame sent to a client
type Outbound struct {
	Type      model.EventType `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   any             `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// CreateRoomPayload accepts either a bare username string or {"username": ...}
type CreateRoomPayload struct {
	Username string `json:"username"`
}

// UnmarshalJSON accepts a JSON string as the username, falling back to the object form
func (p *CreateRoomPayload) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &p.Username); err == nil {
		return nil
	}
	type plain CreateRoomPayload
	return json.Unmarshal(data, (*plain)(p))
}

// JoinRoomPayload is the data for a joinRoom event
type JoinRoomPayload struct {
	RoomID   model.RoomID `json:"roomId"`
	Username string       `json:"username"`
}

// SubmitPlacePayload accepts either a bare place name string or {"placeName": ...}
type SubmitPlacePayload struct {
	PlaceName string `json:"placeName"`
}

// UnmarshalJSON accepts a JSON string as the place name, falling back to the object form
func (p *SubmitPlacePayload) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &p.PlaceName); err == nil {
		return nil
	}
	type plain SubmitPlacePayload
	return json.Unmarshal(data, (*plain)(p))
}

// CreateRoomAck answers createRoom
type CreateRoomAck struct {
	RoomID  model.RoomID `json:"roomId,omitempty"`
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Code    string       `json:"code,omitempty"`
}

// JoinRoomAck answers joinRoom
type JoinRoomAck struct {
	Success  bool            `json:"success"`
	RoomData *model.Snapshot `json:"roomData,omitempty"`
	Message  string          `json:"message,omitempty"`
	Code     string          `json:"code,omitempty"`
}

// LeaveRoomAck answers leaveRoom
type LeaveRoomAck struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorPayload is the body of an error frame
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// decodePayload unmarshals a required payload into T
func decodePayload[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return v, fmt.Errorf("%w: missing payload", model.ErrInvalidMessage)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", model.ErrInvalidMessage, err)
	}
	return v, nil
}

func cleanUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", model.ErrInvalidUsername
	}
	return username, nil
}
