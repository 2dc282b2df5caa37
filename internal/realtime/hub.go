package realtime

import (
	"log/slog"
	"sync"

	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/session"
)

// Hub fans frames out to the connections joined to a single room
type Hub struct {
	roomID  model.RoomID
	clients map[model.ConnectionID]session.Conn
	mu      sync.RWMutex
	logger  *slog.Logger

	// Channels for managing clients
	register   chan session.Conn
	unregister chan session.Conn
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a room
func NewHub(roomID model.RoomID, logger *slog.Logger) *Hub {
	return &Hub{
		roomID:     roomID,
		clients:    make(map[model.ConnectionID]session.Conn),
		logger:     logger.With(slog.String("room_id", string(roomID))),
		register:   make(chan session.Conn),
		unregister: make(chan session.Conn),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("hub started")
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn.ID()] = conn
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("connection joined hub",
				slog.String("connection_id", string(conn.ID())),
				slog.Int("total_clients", clientCount))

		case conn := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, conn.ID())
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("connection left hub",
				slog.String("connection_id", string(conn.ID())),
				slog.Int("total_clients", clientCount))

		case message := <-h.broadcast:
			h.mu.RLock()
			sentCount := 0
			droppedCount := 0
			for id, conn := range h.clients {
				if err := conn.Send(message); err != nil {
					droppedCount++
					h.logger.Warn("frame dropped",
						slog.String("connection_id", string(id)),
						slog.String("error", err.Error()))
					continue
				}
				sentCount++
			}
			h.mu.RUnlock()
			if droppedCount > 0 {
				h.logger.Warn("broadcast partial failure",
					slog.Int("sent", sentCount),
					slog.Int("dropped", droppedCount))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			clear(h.clients)
			h.mu.Unlock()
			h.logger.Debug("hub stopped", slog.Int("released_clients", clientCount))
			return
		}
	}
}

// Register adds a connection to the hub. The connection receives every
// broadcast queued after Register returns.
func (h *Hub) Register(conn session.Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(conn session.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Broadcast queues a frame for every connection in the hub
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast dropped - hub buffer full")
	}
}

// Close shuts down the hub. Connections are released, not closed.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connections in the hub
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager keeps one hub per live room and is the session layer's Channels
type HubManager struct {
	hubs   map[model.RoomID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// Ensure HubManager implements session.Channels
var _ session.Channels = (*HubManager)(nil)

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RoomID]*Hub),
		logger: logger.With(slog.String("component", "hubs")),
	}
}

// GetOrCreateHub returns the hub for a room, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(roomID model.RoomID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		return hub
	}

	hub := NewHub(roomID, m.logger)
	m.hubs[roomID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *HubManager) GetHub(roomID model.RoomID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomID]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(roomID model.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		hub.Close()
		delete(m.hubs, roomID)
		m.logger.Debug("hub removed", slog.String("room_id", string(roomID)))
	}
}

// HubCount returns the number of live hubs
func (m *HubManager) HubCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hubs)
}

// Join subscribes conn to the room's broadcasts, creating the hub if needed
func (m *HubManager) Join(roomID model.RoomID, conn session.Conn) {
	m.GetOrCreateHub(roomID).Register(conn)
}

// Leave unsubscribes conn from the room's broadcasts
func (m *HubManager) Leave(roomID model.RoomID, conn session.Conn) {
	if hub := m.GetHub(roomID); hub != nil {
		hub.Unregister(conn)
	}
}

// Broadcast sends frame to every connection in the room; unknown rooms are ignored
func (m *HubManager) Broadcast(roomID model.RoomID, frame []byte) {
	if hub := m.GetHub(roomID); hub != nil {
		hub.Broadcast(frame)
	}
}

// Close drops the room's hub without closing any sockets
func (m *HubManager) Close(roomID model.RoomID) {
	m.RemoveHub(roomID)
}
