package game

import (
	"github.com/jeighmorg/poker-game/internal/deck"
)

// ClientPlayer is a player as seen by one viewer. Hidden hole cards are
// nil entries so the client still knows how many cards are held.
type ClientPlayer struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Chips          int          `json:"chips"`
	Cards          []*deck.Card `json:"cards"`
	Bet            int          `json:"bet"`
	Status         Status       `json:"status"`
	IsAI           bool         `json:"isAI"`
	IsSpectator    bool         `json:"isSpectator"`
	SeatIndex      int          `json:"seatIndex"`
	IsDisconnected bool         `json:"isDisconnected"`
}

// ClientState is the per-viewer redacted game state broadcast to
// clients. Pot includes uncollected round bets so the display matches
// what is at stake.
type ClientState struct {
	ID                 string         `json:"id"`
	Players            []ClientPlayer `json:"players"`
	CommunityCards     []deck.Card    `json:"communityCards"`
	Pot                int            `json:"pot"`
	SidePots           []SidePot      `json:"sidePots"`
	CurrentBet         int            `json:"currentBet"`
	MinRaise           int            `json:"minRaise"`
	DealerIndex        int            `json:"dealerIndex"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	Phase              Phase          `json:"phase"`
	SmallBlind         int            `json:"smallBlind"`
	BigBlind           int            `json:"bigBlind"`
	LastAction         *LastAction    `json:"lastAction,omitempty"`
	Winners            []WinnerInfo   `json:"winners,omitempty"`
	MyPlayerID         string         `json:"myPlayerId,omitempty"`
}

// RedactedView copies the state for one viewer: every player's hole
// cards are hidden unless the hand has reached showdown or the cards
// belong to the viewer. An empty viewerID produces the spectator view.
func (g *GameState) RedactedView(viewerID string) ClientState {
	isShowdown := g.Phase == PhaseShowdown

	players := make([]ClientPlayer, 0, len(g.Players))
	for _, p := range g.Players {
		cards := make([]*deck.Card, len(p.Cards))
		if isShowdown || p.ID == viewerID {
			for i := range p.Cards {
				card := p.Cards[i]
				cards[i] = &card
			}
		}
		players = append(players, ClientPlayer{
			ID:             p.ID,
			Name:           p.Name,
			Chips:          p.Chips,
			Cards:          cards,
			Bet:            p.Bet,
			Status:         p.Status,
			IsAI:           p.IsAI,
			IsSpectator:    p.IsSpectator,
			SeatIndex:      p.SeatIndex,
			IsDisconnected: p.Disconnected,
		})
	}

	return ClientState{
		ID:                 g.ID,
		Players:            players,
		CommunityCards:     g.CommunityCards,
		Pot:                g.TotalPot(),
		SidePots:           g.SidePots,
		CurrentBet:         g.CurrentBet,
		MinRaise:           g.MinRaise,
		DealerIndex:        g.DealerIndex,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		Phase:              g.Phase,
		SmallBlind:         g.SmallBlind,
		BigBlind:           g.BigBlind,
		LastAction:         g.LastAction,
		Winners:            g.Winners,
		MyPlayerID:         viewerID,
	}
}
