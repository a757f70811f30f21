package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Connection wraps one websocket client. Incoming messages are handed
// to the server; outgoing messages go through a buffered send channel
// drained by the write pump.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu       sync.RWMutex
	roomID   string
	playerID string
	watching bool // joined as spectator
}

// NewConnection creates a connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan *Message, 64),
		server: server,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins the read and write pumps
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close shuts the connection down once
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Done returns a channel closed when the connection ends
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Send queues a message; the connection is closed if the buffer fills.
func (c *Connection) Send(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SendError is a convenience for transient user-facing errors.
func (c *Connection) SendError(text string) {
	msg, err := NewMessage(TypeError, ErrorData{Message: text})
	if err != nil {
		return
	}
	_ = c.Send(msg)
}

// Room returns the room this connection has joined
func (c *Connection) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

// Player returns the seated player id, empty for spectators
func (c *Connection) Player() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// Spectator reports whether this connection watches without a seat
func (c *Connection) Spectator() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watching
}

// key identifies the connection itself, independent of any seat. Rooms
// track spectators by this key.
func (c *Connection) key() string {
	return c.id
}

func (c *Connection) setRoom(roomID, playerID string, spectator bool) {
	c.mu.Lock()
	c.roomID = roomID
	c.playerID = playerID
	c.watching = spectator
	c.mu.Unlock()
}

func (c *Connection) clearRoom() {
	c.setRoom("", "", false)
}

func (c *Connection) readPump() {
	defer func() {
		c.server.unregister <- c
		_ = c.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read error", "error", err)
			}
			return
		}
		c.server.handleMessage(c, &msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}
