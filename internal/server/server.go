// Package server exposes the poker rooms over websocket and a small
// HTTP API. It is plumbing only: every game decision is delegated to
// the room layer and the engine beneath it.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/jeighmorg/poker-game/internal/game"
	"github.com/jeighmorg/poker-game/internal/room"
)

// Server is the websocket/HTTP front end over a room registry.
type Server struct {
	addr       string
	upgrader   websocket.Upgrader
	registry   *room.Registry
	defaults   game.Settings
	logger     *log.Logger
	httpServer *http.Server

	mu          sync.RWMutex
	connections map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewServer creates a server bound to addr, serving rooms from the
// given registry. New rooms joined ad hoc use the default settings.
func NewServer(addr string, registry *room.Registry, defaults game.Settings, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from a separately served UI.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		registry:    registry,
		defaults:    defaults,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
	// Rooms created before the server (for example from a config file)
	// still need their change notifications wired up.
	for _, rm := range registry.Rooms() {
		s.watchRoom(rm)
	}
	return s
}

// Handler returns the HTTP handler serving the websocket endpoint and
// the room API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/rooms", s.handleRooms)
	mux.HandleFunc("/api/rooms/", s.handleRoomInfo)
	return mux
}

// Start runs the connection loop and serves HTTP until Stop is called.
func (s *Server) Start() error {
	go s.run()

	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Handler()}
	s.logger.Info("starting server", "addr", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts down the HTTP listener and closes every connection.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()
			if ok {
				s.dropFromRoom(conn)
				_ = conn.Close()
				s.logger.Info("client disconnected", "total", total)
			}

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s, s.logger)
	s.register <- conn
	conn.Start()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"rooms":  s.registry.Count(),
	})
}

// handleRooms creates a room with optional settings overrides.
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Name     string         `json:"name"`
		Settings *game.Settings `json:"settings"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	settings := s.defaults
	if body.Settings != nil {
		settings = mergeSettings(s.defaults, *body.Settings)
	}

	rm := s.registry.Create("", body.Name, settings)
	s.watchRoom(rm)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"roomId":   rm.ID,
		"settings": rm.Settings,
	})
}

func (s *Server) handleRoomInfo(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/rooms/")
	rm, ok := s.registry.Get(id)
	if !ok {
		http.Error(w, `{"error":"Room not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":             rm.ID,
		"name":           rm.Name,
		"playerCount":    rm.PlayerCount(),
		"spectatorCount": rm.SpectatorCount(),
		"settings":       rm.Settings,
		"phase":          rm.Phase(),
	})
}

// mergeSettings overlays non-zero fields from override onto base.
func mergeSettings(base, override game.Settings) game.Settings {
	merged := base
	if override.SmallBlind > 0 {
		merged.SmallBlind = override.SmallBlind
	}
	if override.BigBlind > 0 {
		merged.BigBlind = override.BigBlind
	}
	if override.StartingChips > 0 {
		merged.StartingChips = override.StartingChips
	}
	if override.MaxPlayers > 0 {
		merged.MaxPlayers = override.MaxPlayers
	}
	if override.TurnTimeLimit > 0 {
		merged.TurnTimeLimit = override.TurnTimeLimit
	}
	return merged
}

// watchRoom wires the room's change notifications to a broadcast.
func (s *Server) watchRoom(rm *room.Room) {
	roomID := rm.ID
	rm.SetOnChange(func() {
		s.broadcastRoom(roomID)
	})
}

// broadcastRoom sends each connection in the room its own redacted view.
func (s *Server) broadcastRoom(roomID string) {
	rm, ok := s.registry.Get(roomID)
	if !ok {
		return
	}

	s.mu.RLock()
	var conns []*Connection
	for conn := range s.connections {
		if conn.Room() == roomID {
			conns = append(conns, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		view := rm.View(conn.Player())
		msg, err := NewMessage(TypeGameState, view)
		if err != nil {
			s.logger.Error("failed to encode game state", "error", err)
			continue
		}
		_ = conn.Send(msg)
	}
}

// broadcastToRoom sends one message to everyone in the room.
func (s *Server) broadcastToRoom(roomID string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.connections {
		if conn.Room() == roomID {
			_ = conn.Send(msg)
		}
	}
}

// handleMessage dispatches one client message.
func (s *Server) handleMessage(c *Connection, msg *Message) {
	switch msg.Type {
	case TypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.RoomID == "" || (data.PlayerName == "" && !data.AsSpectator) {
			c.SendError("Invalid join request")
			return
		}
		s.handleJoin(c, data)

	case TypeLeaveRoom:
		s.dropFromRoom(c)

	case TypePlayerAction:
		var data PlayerActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.SendError("Invalid action")
			return
		}
		s.handleAction(c, data)

	case TypeStartGame:
		s.handleStartGame(c)

	case TypeAddAI:
		s.handleAddAI(c)

	case TypeSendChat:
		var data ChatData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.Text == "" {
			return
		}
		s.handleChat(c, data)

	default:
		c.SendError(fmt.Sprintf("Unknown message type %q", msg.Type))
	}
}

func (s *Server) handleJoin(c *Connection, data JoinRoomData) {
	// Leaving an old room first keeps one seat per connection.
	if c.Room() != "" && c.Room() != data.RoomID {
		s.dropFromRoom(c)
	}

	rm, existed := s.registry.Get(data.RoomID)
	if !existed {
		rm = s.registry.GetOrCreate(data.RoomID, s.defaults)
		s.watchRoom(rm)
	}

	joinAsSpectator := data.AsSpectator

	var playerID string
	if !joinAsSpectator {
		ref, reconnected, ok := rm.Join(data.PlayerName)
		if !ok {
			joinAsSpectator = true
			c.SendError("Table is full. Joined as spectator.")
		} else {
			playerID = ref.ID
			if !reconnected {
				if joined, err := NewMessage(TypePlayerJoined, PlayerJoinedData{PlayerID: ref.ID, Name: ref.Name}); err == nil {
					s.broadcastToRoom(rm.ID, joined)
				}
			}
		}
	}

	c.setRoom(rm.ID, playerID, joinAsSpectator)
	if joinAsSpectator {
		rm.AddSpectator(c.key())
	}

	if info, err := NewMessage(TypeRoomInfo, RoomInfoData{RoomID: rm.ID, Settings: rm.Settings}); err == nil {
		_ = c.Send(info)
	}
	s.broadcastRoom(rm.ID)
}

func (s *Server) handleAction(c *Connection, data PlayerActionData) {
	rm, playerID, ok := s.roomFor(c)
	if !ok || playerID == "" {
		c.SendError("Not seated at a table")
		return
	}

	action, ok := game.ParseAction(data.Action)
	if !ok {
		c.SendError("Invalid action")
		return
	}

	if !rm.HandleAction(playerID, action, data.Amount) {
		c.SendError("Invalid action")
	}
}

func (s *Server) handleStartGame(c *Connection) {
	rm, _, ok := s.roomFor(c)
	if !ok {
		return
	}
	if !rm.StartGame() {
		c.SendError("Cannot start game. Need at least 2 players.")
	}
}

func (s *Server) handleAddAI(c *Connection) {
	rm, _, ok := s.roomFor(c)
	if !ok {
		return
	}
	ref, added := rm.AddAI()
	if !added {
		c.SendError("Cannot add more AI players")
		return
	}
	if joined, err := NewMessage(TypePlayerJoined, PlayerJoinedData{PlayerID: ref.ID, Name: ref.Name}); err == nil {
		s.broadcastToRoom(rm.ID, joined)
	}
}

func (s *Server) handleChat(c *Connection, data ChatData) {
	rm, playerID, ok := s.roomFor(c)
	if !ok || playerID == "" {
		return
	}

	name := ""
	for _, ref := range rm.Players() {
		if ref.ID == playerID {
			name = ref.Name
			break
		}
	}

	if msg, err := NewMessage(TypeChatMessage, ChatMessageData{PlayerID: playerID, PlayerName: name, Text: data.Text}); err == nil {
		s.broadcastToRoom(rm.ID, msg)
	}
}

// dropFromRoom detaches a connection from its room: spectators are
// unregistered, seated players leave (or get marked disconnected
// mid-hand). Empty rooms are torn down.
func (s *Server) dropFromRoom(c *Connection) {
	roomID := c.Room()
	if roomID == "" {
		return
	}
	rm, ok := s.registry.Get(roomID)
	if !ok {
		c.clearRoom()
		return
	}

	if c.Spectator() {
		rm.RemoveSpectator(c.key())
	} else if playerID := c.Player(); playerID != "" {
		rm.Leave(playerID)
		if left, err := NewMessage(TypePlayerLeft, PlayerLeftData{PlayerID: playerID}); err == nil {
			s.broadcastToRoom(roomID, left)
		}
	}
	c.clearRoom()

	s.registry.DeleteIfEmpty(roomID)
}

func (s *Server) roomFor(c *Connection) (*room.Room, string, bool) {
	roomID := c.Room()
	if roomID == "" {
		return nil, "", false
	}
	rm, ok := s.registry.Get(roomID)
	if !ok {
		return nil, "", false
	}
	return rm, c.Player(), true
}
