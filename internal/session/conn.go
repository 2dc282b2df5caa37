package session

import "github.com/mcoot/geochain/internal/model"

// Conn is the sending half of one client connection
type Conn interface {
	ID() model.ConnectionID
	// Send queues a frame for delivery. It must not block; a frame that
	// cannot be queued is dropped and reported as an error.
	Send(frame []byte) error
}

// Channels groups connections by room for multicast delivery
type Channels interface {
	Join(roomID model.RoomID, conn Conn)
	Leave(roomID model.RoomID, conn Conn)
	Broadcast(roomID model.RoomID, frame []byte)
	// Close drops the room's channel and every membership in it
	Close(roomID model.RoomID)
}
