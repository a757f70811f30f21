package tui

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jeighmorg/poker-game/internal/server"
)

// Client is the websocket side of the TUI: it owns the connection and
// exposes typed send helpers. Received messages are pushed onto Incoming
// for the bubbletea model to drain.
type Client struct {
	conn     *websocket.Conn
	Incoming chan *server.Message
	done     chan struct{}
}

// Dial connects to the server's websocket endpoint.
func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}

	c := &Client{
		conn:     conn,
		Incoming: make(chan *server.Message, 32),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.Incoming)
	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		select {
		case c.Incoming <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close tears the connection down.
func (c *Client) Close() error {
	close(c.done)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}

func (c *Client) send(messageType server.MessageType, data interface{}) error {
	msg, err := server.NewMessage(messageType, data)
	if err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// Join requests a seat (or a spectator slot) in a room.
func (c *Client) Join(roomID, name string, asSpectator bool) error {
	return c.send(server.TypeJoinRoom, server.JoinRoomData{
		RoomID:      roomID,
		PlayerName:  name,
		AsSpectator: asSpectator,
	})
}

// Action submits a betting action for the current turn.
func (c *Client) Action(action string, amount int) error {
	return c.send(server.TypePlayerAction, server.PlayerActionData{
		Action: action,
		Amount: amount,
	})
}

// StartGame asks the room to deal the first hand.
func (c *Client) StartGame() error {
	return c.send(server.TypeStartGame, nil)
}

// AddAI asks the room to seat a bot.
func (c *Client) AddAI() error {
	return c.send(server.TypeAddAI, nil)
}

// Chat sends a table chat line.
func (c *Client) Chat(text string) error {
	return c.send(server.TypeSendChat, server.ChatData{Text: text})
}
