// Package tui is the interactive terminal client. It renders the
// redacted table state the server broadcasts and turns typed commands
// into protocol messages.
package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeighmorg/poker-game/internal/deck"
	"github.com/jeighmorg/poker-game/internal/game"
	"github.com/jeighmorg/poker-game/internal/server"
)

// Config holds the connection parameters for a client session.
type Config struct {
	Server   string
	Name     string
	Room     string
	Spectate bool
}

// serverMsg wraps an incoming protocol message for the update loop.
type serverMsg struct {
	msg *server.Message
}

// disconnectedMsg is delivered when the websocket closes.
type disconnectedMsg struct{}

// Model is the bubbletea model for a table session.
type Model struct {
	client *Client
	config Config

	state      *game.ClientState
	roomID     string
	lastAction *game.LastAction

	logViewport viewport.Model
	input       textinput.Model
	gameLog     []string
	errText     string

	width       int
	height      int
	initialized bool
	quitting    bool
}

// NewModel creates a model over an established client connection.
func NewModel(client *Client, config Config) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "check, call, raise 40, fold, allin, start, bot, say hi, quit"
	ti.Focus()
	ti.CharLimit = 200
	ti.Prompt = "> "
	ti.PromptStyle = turnStyle

	return &Model{
		client:      client,
		config:      config,
		logViewport: vp,
		input:       ti,
	}
}

// Run dials the server, joins the room and blocks until the session
// ends.
func Run(config Config) error {
	client, err := Dial(config.Server)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Join(config.Room, config.Name, config.Spectate); err != nil {
		return err
	}

	model := NewModel(client, config)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// Init starts listening for server messages.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForMessage())
}

func (m *Model) waitForMessage() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.client.Incoming
		if !ok {
			return disconnectedMsg{}
		}
		return serverMsg{msg: msg}
	}
}

// Update handles terminal and server events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case disconnectedMsg:
		m.appendLog(errorStyle.Render("Disconnected from server"))
		m.quitting = true
		return m, tea.Quit

	case serverMsg:
		m.handleServerMessage(msg.msg)
		cmds = append(cmds, m.waitForMessage())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			command := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if cmd := m.runCommand(command); cmd != nil {
				return m, cmd
			}
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleServerMessage(msg *server.Message) {
	switch msg.Type {
	case server.TypeRoomInfo:
		var data server.RoomInfoData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.roomID = data.RoomID
			m.appendLog(fmt.Sprintf("Joined room %s (blinds %d/%d)",
				data.RoomID, data.Settings.SmallBlind, data.Settings.BigBlind))
		}

	case server.TypeGameState:
		var state game.ClientState
		if err := json.Unmarshal(msg.Data, &state); err != nil {
			return
		}
		m.logTransition(m.state, &state)
		m.state = &state
		m.errText = ""

	case server.TypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.errText = data.Message
			m.appendLog(errorStyle.Render(data.Message))
		}

	case server.TypePlayerJoined:
		var data server.PlayerJoinedData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.appendLog(fmt.Sprintf("%s joined the table", data.Name))
		}

	case server.TypePlayerLeft:
		var data server.PlayerLeftData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.appendLog(fmt.Sprintf("%s left the table", m.playerName(data.PlayerID)))
		}

	case server.TypeChatMessage:
		var data server.ChatMessageData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.appendLog(fmt.Sprintf("%s: %s", data.PlayerName, data.Text))
		}
	}
}

// logTransition derives log lines from consecutive state snapshots.
func (m *Model) logTransition(old, next *game.ClientState) {
	if next.LastAction != nil && !sameAction(m.lastAction, next.LastAction) {
		m.lastAction = next.LastAction
		name := m.nameIn(next, next.LastAction.PlayerID)
		switch next.LastAction.Action {
		case game.ActionFold, game.ActionCheck:
			m.appendLog(fmt.Sprintf("%s %ss", name, next.LastAction.Action))
		case game.ActionCall:
			m.appendLog(fmt.Sprintf("%s calls %d", name, next.LastAction.Amount))
		case game.ActionRaise:
			m.appendLog(fmt.Sprintf("%s raises to %d", name, next.LastAction.Amount))
		case game.ActionAllIn:
			m.appendLog(fmt.Sprintf("%s is all in for %d", name, next.LastAction.Amount))
		}
	}

	oldPhase := game.PhaseWaiting
	if old != nil {
		oldPhase = old.Phase
	}
	if next.Phase != oldPhase {
		switch next.Phase {
		case game.PhasePreflop:
			m.lastAction = nil
			m.appendLog(fmt.Sprintf("New hand dealt, blinds %d/%d", next.SmallBlind, next.BigBlind))
		case game.PhaseFlop, game.PhaseTurn, game.PhaseRiver:
			m.appendLog(fmt.Sprintf("%s: %s", strings.ToUpper(next.Phase.String()),
				formatCards(cardPtrs(next.CommunityCards))))
		case game.PhaseShowdown:
			for _, w := range next.Winners {
				line := fmt.Sprintf("%s wins %d", m.nameIn(next, w.PlayerID), w.Amount)
				if w.HandName != "" {
					line += " with " + w.HandName
				}
				m.appendLog(winnerStyle.Render(line))
			}
		}
	}
}

func sameAction(a, b *game.LastAction) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// runCommand parses one input line into a protocol message.
func (m *Model) runCommand(command string) tea.Cmd {
	if command == "" {
		return nil
	}

	fields := strings.Fields(command)
	verb := strings.ToLower(fields[0])

	var err error
	switch verb {
	case "quit", "exit":
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	case "fold", "check", "call":
		err = m.client.Action(verb, 0)
	case "allin", "all-in":
		err = m.client.Action("all-in", 0)
	case "raise":
		if len(fields) < 2 {
			m.errText = "Usage: raise <amount>"
			return nil
		}
		amount, convErr := strconv.Atoi(fields[1])
		if convErr != nil || amount <= 0 {
			m.errText = "Raise amount must be a positive number"
			return nil
		}
		err = m.client.Action("raise", amount)
	case "start":
		err = m.client.StartGame()
	case "bot", "ai":
		err = m.client.AddAI()
	case "say", "chat":
		text := strings.TrimSpace(strings.TrimPrefix(command, fields[0]))
		if text != "" {
			err = m.client.Chat(text)
		}
	default:
		m.errText = fmt.Sprintf("Unknown command %q", verb)
		return nil
	}

	if err != nil {
		m.errText = err.Error()
	}
	return nil
}

// View renders the table.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := titleStyle.Render(" ♠ ♥ Texas Hold'em ♦ ♣ ")
	if m.roomID != "" {
		header += "  " + helpStyle.Render("room "+m.roomID)
	}

	table := m.renderTable()
	action := m.renderActionPane()

	logHeight := m.height - lipgloss.Height(header) - lipgloss.Height(table) - lipgloss.Height(action) - 2
	if logHeight < 3 {
		logHeight = 3
	}
	m.logViewport.Width = m.width - 2
	m.logViewport.Height = logHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if !m.initialized {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, table, logPane, action)
}

// renderTable draws the seats, board and pot.
func (m *Model) renderTable() string {
	if m.state == nil {
		return helpStyle.Render("\nWaiting for table state...\n")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, p := range m.state.Players {
		line := m.renderSeat(i, p)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(boardStyle.Render("Board: " + formatCards(cardPtrs(m.state.CommunityCards))))
	b.WriteString("  ")
	b.WriteString(potStyle.Render(fmt.Sprintf("Pot: %d", m.state.Pot)))
	for _, sp := range m.state.SidePots {
		b.WriteString(potStyle.Render(fmt.Sprintf(" (side %d)", sp.Amount)))
	}
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderSeat(index int, p game.ClientPlayer) string {
	marker := "  "
	if index == m.state.DealerIndex {
		marker = "D "
	}

	name := p.Name
	if p.ID == m.state.MyPlayerID {
		name += " (you)"
	}
	if p.IsDisconnected {
		name += " [away]"
	}

	line := fmt.Sprintf("%s%-24s %6d chips  %s", marker, name, p.Chips, formatCards(p.Cards))
	if p.Bet > 0 {
		line += fmt.Sprintf("  bet %d", p.Bet)
	}
	if p.Status == game.StatusAllIn {
		line += "  ALL IN"
	}

	switch {
	case p.Status == game.StatusFolded:
		return foldedStyle.Render(line)
	case index == m.state.CurrentPlayerIndex && m.state.Phase != game.PhaseWaiting && m.state.Phase != game.PhaseShowdown:
		return turnStyle.Render("→" + line[1:])
	default:
		return line
	}
}

// renderActionPane shows the prompt, the viewer's options and any
// transient error.
func (m *Model) renderActionPane() string {
	var b strings.Builder

	if hint := m.actionHint(); hint != "" {
		b.WriteString(actionsStyle.Render(hint))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(errorStyle.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("PgUp/PgDn scroll log • Ctrl+C to quit"))

	return b.String()
}

// actionHint summarizes the viewer's legal moves on their turn.
func (m *Model) actionHint() string {
	s := m.state
	if s == nil || s.MyPlayerID == "" {
		return ""
	}
	if s.Phase == game.PhaseWaiting {
		return "Type 'start' to deal, 'bot' to add an AI player"
	}
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return ""
	}
	me := s.Players[s.CurrentPlayerIndex]
	if me.ID != s.MyPlayerID {
		return ""
	}

	toCall := s.CurrentBet - me.Bet
	options := []string{"[fold]"}
	if toCall <= 0 {
		options = append(options, "[check]")
	} else if me.Chips >= toCall {
		options = append(options, fmt.Sprintf("[call %d]", toCall))
	}
	if me.Chips > toCall {
		options = append(options, fmt.Sprintf("[raise to %d+]", s.CurrentBet+s.MinRaise))
	}
	options = append(options, "[allin]")

	return "Your turn: " + strings.Join(options, " ")
}

func (m *Model) appendLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) playerName(id string) string {
	return m.nameIn(m.state, id)
}

func (m *Model) nameIn(state *game.ClientState, id string) string {
	if state != nil {
		for _, p := range state.Players {
			if p.ID == id {
				return p.Name
			}
		}
	}
	return "Player"
}

// formatCards renders a hand, with face-down cards as a placeholder.
func formatCards(cards []*deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cards))
	for _, card := range cards {
		switch {
		case card == nil:
			parts = append(parts, hiddenCardStyle.Render("🂠"))
		case card.Suit.IsRed():
			parts = append(parts, redCardStyle.Render(card.String()))
		default:
			parts = append(parts, blackCardStyle.Render(card.String()))
		}
	}
	return strings.Join(parts, " ")
}

func cardPtrs(cards []deck.Card) []*deck.Card {
	out := make([]*deck.Card, len(cards))
	for i := range cards {
		out[i] = &cards[i]
	}
	return out
}
