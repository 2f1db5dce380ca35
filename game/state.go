package game

import (
	"fmt"

	"github.com/minaorangina/guinote/deck"
)

// Phase represents the stage a hand is in
type Phase string

const (
	PhaseDealing  Phase = "dealing"
	PhasePlaying  Phase = "playing"  // draw pile not yet exhausted
	PhaseArrastre Phase = "arrastre" // draw pile empty, stricter play obligations
	PhaseScoring  Phase = "scoring"
	PhaseGameOver Phase = "gameOver"
)

const (
	numPlayers       = 4
	numTeams         = 2
	handSize         = 6
	winningScore     = 101
	minCardPoints    = 30
	lastTrickBonus   = 10
	cantePoints      = 20
	canteTrumpPoints = 40
)

// Player is a seat at the table. Seats i and i+2 are partners.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Team  int    `json:"team"`
	IsBot bool   `json:"isBot"`
}

// Team holds a partnership's tally for the current hand
type Team struct {
	ID int `json:"id"`
	// Score is captured points plus cante points (and the last-trick bonus)
	Score int `json:"score"`
	// CardPoints only counts captured cards
	CardPoints int         `json:"cardPoints"`
	Cantes     []deck.Suit `json:"cantes"`
}

// HasCantado reports whether the team has already declared suit this hand
func (t Team) HasCantado(suit deck.Suit) bool {
	for _, s := range t.Cantes {
		if s == suit {
			return true
		}
	}
	return false
}

type TrickCard struct {
	PlayerID string    `json:"playerID"`
	Card     deck.Card `json:"card"`
}

// HandResult records how a hand was won
type HandResult struct {
	Winner int `json:"winner"`
	// Scores are the totals the hand was decided on. In vueltas they include the
	// carried-over scores.
	Scores   [numTeams]int `json:"scores"`
	Malas    bool          `json:"malas"`
	Declared bool          `json:"declared"`
}

// GameState is the full-information state of one hand. Operations never modify
// the value they are given; they return an updated copy.
type GameState struct {
	Phase   Phase                  `json:"phase"`
	Players [numPlayers]Player     `json:"players"`
	Teams   [numTeams]Team         `json:"teams"`
	Hands   map[string][]deck.Card `json:"hands"`

	// DrawPile is drawn from the end. The face-up trump card sits at index 0 so it
	// is the last card drawn.
	DrawPile  deck.Deck `json:"drawPile"`
	TrumpSuit deck.Suit `json:"trumpSuit"`
	TrumpCard deck.Card `json:"trumpCard"`

	CurrentTrick []TrickCard           `json:"currentTrick"`
	Captured     [numTeams][]deck.Card `json:"captured"`

	CurrentPlayer   int `json:"currentPlayer"`
	Dealer          int `json:"dealer"`
	Lead            int `json:"lead"`
	TrickCount      int `json:"trickCount"`
	LastTrickWinner int `json:"lastTrickWinner"`

	CanCambiar7      bool           `json:"canCambiar7"`
	IsVueltas        bool           `json:"isVueltas"`
	InitialScores    *[numTeams]int `json:"initialScores,omitempty"`
	VictoryThreshold *[numTeams]int `json:"victoryThreshold,omitempty"`

	Result *HandResult `json:"result,omitempty"`
}

// NewGame seats four players for a hand dealt by dealer. Team membership follows
// the seat, whatever the players say.
func NewGame(players [numPlayers]Player, dealer int) GameState {
	s := GameState{
		Phase:           PhaseDealing,
		Hands:           map[string][]deck.Card{},
		CurrentTrick:    []TrickCard{},
		Dealer:          dealer % numPlayers,
		LastTrickWinner: -1,
		CanCambiar7:     true,
	}
	for i, p := range players {
		p.Team = TeamOf(i)
		s.Players[i] = p
		s.Hands[p.ID] = []deck.Card{}
	}
	for i := range s.Teams {
		s.Teams[i] = Team{ID: i, Cantes: []deck.Suit{}}
	}
	s.Lead = leadFor(s.Dealer)
	s.CurrentPlayer = s.Lead
	return s
}

// Clone returns a deep copy of the state
func (s GameState) Clone() GameState {
	out := s
	out.Hands = make(map[string][]deck.Card, len(s.Hands))
	for id, cards := range s.Hands {
		out.Hands[id] = cloneCards(cards)
	}
	out.DrawPile = deck.Deck(cloneCards(s.DrawPile))
	if s.CurrentTrick != nil {
		out.CurrentTrick = append([]TrickCard{}, s.CurrentTrick...)
	}
	for i := range s.Teams {
		if s.Teams[i].Cantes != nil {
			out.Teams[i].Cantes = append([]deck.Suit{}, s.Teams[i].Cantes...)
		}
		out.Captured[i] = cloneCards(s.Captured[i])
	}
	if s.InitialScores != nil {
		scores := *s.InitialScores
		out.InitialScores = &scores
	}
	if s.VictoryThreshold != nil {
		threshold := *s.VictoryThreshold
		out.VictoryThreshold = &threshold
	}
	if s.Result != nil {
		result := *s.Result
		out.Result = &result
	}
	return out
}

// Seat returns the table position of a player
func (s GameState) Seat(playerID string) (int, bool) {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i, true
		}
	}
	return -1, false
}

// CurrentPlayerID is the id of the player expected to play next
func (s GameState) CurrentPlayerID() string {
	return s.Players[s.CurrentPlayer].ID
}

// CombinedScore is the team's score including anything carried over from
// before vueltas
func (s GameState) CombinedScore(team int) int {
	total := s.Teams[team].Score
	if s.InitialScores != nil {
		total += s.InitialScores[team]
	}
	return total
}

// HandsEmpty reports whether every player has played out
func (s GameState) HandsEmpty() bool {
	for _, cards := range s.Hands {
		if len(cards) > 0 {
			return false
		}
	}
	return true
}

// Validate checks that the 40 cards are partitioned, without duplicates, across
// the draw pile, the hands, the current trick and the captured piles.
func (s GameState) Validate() error {
	seen := map[deck.Card]string{}
	add := func(where string, cards ...deck.Card) error {
		for _, c := range cards {
			if prev, ok := seen[c]; ok {
				return fmt.Errorf("%w: %s in both %s and %s", ErrInvalidGameState, c.ID(), prev, where)
			}
			seen[c] = where
		}
		return nil
	}

	if err := add("draw pile", s.DrawPile...); err != nil {
		return err
	}
	for id, cards := range s.Hands {
		if err := add("hand of "+id, cards...); err != nil {
			return err
		}
	}
	for _, tc := range s.CurrentTrick {
		if err := add("current trick", tc.Card); err != nil {
			return err
		}
	}
	for i, cards := range s.Captured {
		if err := add(fmt.Sprintf("captured by team %d", i), cards...); err != nil {
			return err
		}
	}

	if len(seen) == 0 && s.Phase == PhaseDealing {
		return nil
	}
	if len(seen) != deck.Size {
		return fmt.Errorf("%w: %d cards accounted for, want %d", ErrInvalidGameState, len(seen), deck.Size)
	}
	if len(s.CurrentTrick) >= numPlayers {
		return fmt.Errorf("%w: unresolved trick of %d cards", ErrInvalidGameState, len(s.CurrentTrick))
	}
	return nil
}
