package protocol

import (
	"github.com/minaorangina/guinote/deck"
	"github.com/minaorangina/guinote/game"
)

// View is what one player is allowed to see of a match. Other players' hands are
// reduced to a count.
type View struct {
	MatchID       string           `json:"matchID"`
	Version       int              `json:"version"`
	Phase         game.Phase       `json:"phase"`
	Players       []game.Player    `json:"players"`
	Hand          []deck.Card      `json:"hand"`
	HandSizes     map[string]int   `json:"handSizes"`
	DeckCount     int              `json:"deckCount"`
	TrumpCard     deck.Card        `json:"trumpCard"`
	CurrentTrick  []game.TrickCard `json:"currentTrick"`
	CurrentTurn   string           `json:"currentTurn"`
	Dealer        int              `json:"dealer"`
	Lead          int              `json:"lead"`
	Teams         []game.Team      `json:"teams"`
	IsVueltas     bool             `json:"isVueltas"`
	InitialScores *[2]int          `json:"initialScores,omitempty"`
	Score         game.MatchScore  `json:"score"`
	LastHand      *game.HandResult `json:"lastHand,omitempty"`

	// what the receiving player can do right now
	Moves             []string    `json:"moves"`
	Cantes            []deck.Suit `json:"cantes"`
	CanCambiar7       bool        `json:"canCambiar7"`
	CanDeclareVictory bool        `json:"canDeclareVictory"`
}

// BuildView redacts m for playerID
func BuildView(m game.Match, playerID string) View {
	s := m.State
	v := View{
		MatchID:       m.ID,
		Version:       m.Moves,
		Phase:         s.Phase,
		Players:       s.Players[:],
		Hand:          append([]deck.Card{}, s.Hands[playerID]...),
		HandSizes:     map[string]int{},
		DeckCount:     len(s.DrawPile),
		TrumpCard:     s.TrumpCard,
		CurrentTrick:  append([]game.TrickCard{}, s.CurrentTrick...),
		CurrentTurn:   s.CurrentPlayerID(),
		Dealer:        s.Dealer,
		Lead:          s.Lead,
		Teams:         s.Teams[:],
		IsVueltas:     s.IsVueltas,
		InitialScores: s.InitialScores,
		Score:         m.Score,
		LastHand:      m.LastHand,
		Moves:         []string{},
		Cantes:        []deck.Suit{},
	}
	for _, p := range s.Players {
		v.HandSizes[p.ID] = len(s.Hands[p.ID])
	}
	for _, c := range game.LegalPlays(s, playerID) {
		v.Moves = append(v.Moves, c.ID())
	}
	for _, suit := range deck.Suits {
		if _, err := game.Cante(s, playerID, suit); err == nil {
			v.Cantes = append(v.Cantes, suit)
		}
	}
	_, err := game.ExchangeSeven(s, playerID)
	v.CanCambiar7 = err == nil
	_, err = game.ClaimVictory(s, playerID)
	v.CanDeclareVictory = err == nil
	return v
}
