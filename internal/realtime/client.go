package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

var (
	// ErrClientClosed is returned when sending to a client whose socket is gone
	ErrClientClosed = errors.New("client closed")
	// ErrSendBufferFull is returned when a slow client cannot take another frame
	ErrSendBufferFull = errors.New("send buffer full")
)

// Client is one websocket connection. It owns the socket; sessions and hubs
// only queue frames on it.
type Client struct {
	id     model.ConnectionID
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

// Ensure Client implements session.Conn
var _ session.Conn = (*Client)(nil)

// NewClient creates a new websocket client
func NewClient(id model.ConnectionID, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger.With(slog.String("connection_id", string(id))),
	}
}

// ID returns the connection's identifier
func (c *Client) ID() model.ConnectionID {
	return c.id
}

// Send queues a frame without blocking
func (c *Client) Send(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close closes the socket; closing twice is a no-op
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run pumps frames between the socket and the session until the peer goes
// away, then closes the session
func (c *Client) Run(ctx context.Context, sess *session.Session) {
	go c.writePump()
	c.readPump(ctx, sess)
}

func (c *Client) readPump(ctx context.Context, sess *session.Session) {
	defer func() {
		sess.Close(context.WithoutCancel(ctx))
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", slog.String("error", err.Error()))
			}
			return
		}

		sess.Handle(ctx, message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("websocket write error", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
