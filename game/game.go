package game

import (
	"errors"
	"fmt"

	"github.com/minaorangina/guinote/deck"
)

// Rejections. These are expected outcomes of a player trying something the rules
// don't allow; the state is left unchanged.
var (
	ErrWrongPhase              = errors.New("action not allowed in this phase")
	ErrWrongTurn               = errors.New("not this player's turn")
	ErrUnknownPlayer           = errors.New("unknown player")
	ErrUnknownCard             = errors.New("unknown card")
	ErrUnknownAction           = errors.New("unknown action")
	ErrCardNotInHand           = errors.New("card not in hand")
	ErrMustFollow              = errors.New("must follow the lead suit")
	ErrMustBeat                = errors.New("must beat the winning card")
	ErrMustTrump               = errors.New("must play a trump")
	ErrCanteTiming             = errors.New("cante only allowed by the team that won the last trick, before leading")
	ErrCanteMissingPair        = errors.New("cante requires the rey and caballo of the suit")
	ErrCanteAlreadyDeclared    = errors.New("suit already declared this hand")
	ErrCambiar7Unmet           = errors.New("cannot exchange the seven")
	ErrVictoryDeclarationUnmet = errors.New("cannot declare victory")
	ErrMatchOver               = errors.New("match is already over")
)

// ErrInvalidGameState signals a broken invariant, not a player mistake
var ErrInvalidGameState = errors.New("invalid game state")

var rejections = []error{
	ErrWrongPhase,
	ErrWrongTurn,
	ErrUnknownPlayer,
	ErrUnknownCard,
	ErrUnknownAction,
	ErrCardNotInHand,
	ErrMustFollow,
	ErrMustBeat,
	ErrMustTrump,
	ErrCanteTiming,
	ErrCanteMissingPair,
	ErrCanteAlreadyDeclared,
	ErrCambiar7Unmet,
	ErrVictoryDeclarationUnmet,
	ErrMatchOver,
}

// IsRejection reports whether err is a rule rejection rather than a failure
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

type ActionType int

const (
	ActionPlayCard ActionType = iota
	ActionCantar
	ActionCambiar7
	ActionDeclareVictory
)

var actionNames = map[ActionType]string{
	ActionPlayCard:       "PlayCard",
	ActionCantar:         "Cantar",
	ActionCambiar7:       "Cambiar7",
	ActionDeclareVictory: "DeclareVictory",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ActionType(%d)", int(a))
}

// Action is one move. It only identifies the move; legality comes from the state.
type Action struct {
	Type     ActionType
	PlayerID string
	CardID   string    // PlayCard
	Suit     deck.Suit // Cantar
}

func PlayCard(playerID, cardID string) Action {
	return Action{Type: ActionPlayCard, PlayerID: playerID, CardID: cardID}
}

func Cantar(playerID string, suit deck.Suit) Action {
	return Action{Type: ActionCantar, PlayerID: playerID, Suit: suit}
}

func Cambiar7(playerID string) Action {
	return Action{Type: ActionCambiar7, PlayerID: playerID}
}

func DeclareVictory(playerID string) Action {
	return Action{Type: ActionDeclareVictory, PlayerID: playerID}
}

// Apply returns the state that results from a. On rejection it returns s as given
// together with the reason.
func Apply(s GameState, a Action) (GameState, error) {
	switch a.Type {
	case ActionPlayCard:
		card, err := deck.ParseID(a.CardID)
		if err != nil {
			return s, fmt.Errorf("%w: %v", ErrUnknownCard, err)
		}
		return Play(s, a.PlayerID, card)
	case ActionCantar:
		return Cante(s, a.PlayerID, a.Suit)
	case ActionCambiar7:
		return ExchangeSeven(s, a.PlayerID)
	case ActionDeclareVictory:
		return ClaimVictory(s, a.PlayerID)
	}
	return s, fmt.Errorf("%w: %d", ErrUnknownAction, int(a.Type))
}
