package server

import (
	"encoding/json"
	"time"

	"github.com/jeighmorg/poker-game/internal/game"
)

// MessageType identifies a websocket message
type MessageType string

// Client -> server message types
const (
	TypeJoinRoom     MessageType = "joinRoom"
	TypeLeaveRoom    MessageType = "leaveRoom"
	TypePlayerAction MessageType = "playerAction"
	TypeStartGame    MessageType = "startGame"
	TypeAddAI        MessageType = "addAI"
	TypeSendChat     MessageType = "sendChat"
)

// Server -> client message types
const (
	TypeRoomInfo     MessageType = "roomInfo"
	TypeGameState    MessageType = "gameState"
	TypeError        MessageType = "error"
	TypePlayerJoined MessageType = "playerJoined"
	TypePlayerLeft   MessageType = "playerLeft"
	TypeChatMessage  MessageType = "chatMessage"
)

// Message is the websocket envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client -> server payloads

type JoinRoomData struct {
	RoomID      string `json:"roomId"`
	PlayerName  string `json:"playerName"`
	AsSpectator bool   `json:"asSpectator,omitempty"`
}

type PlayerActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type ChatData struct {
	Text string `json:"text"`
}

// Server -> client payloads

type RoomInfoData struct {
	RoomID   string        `json:"roomId"`
	Settings game.Settings `json:"settings"`
}

type ErrorData struct {
	Message string `json:"message"`
}

type PlayerJoinedData struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type PlayerLeftData struct {
	PlayerID string `json:"playerId"`
}

type ChatMessageData struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
}
