package protocol

import (
	"errors"
	"fmt"

	"github.com/minaorangina/guinote/deck"
	"github.com/minaorangina/guinote/game"
)

var ErrUnsupportedCmd = errors.New("command is not a game action")

type Player struct {
	PlayerID string `json:"playerID"`
	Name     string `json:"name"`
}

// InboundMessage is a message from a player to the server
type InboundMessage struct {
	PlayerID string `json:"playerID" mapstructure:"playerID"`
	Command  Cmd    `json:"command" mapstructure:"command"`
	CardID   string `json:"cardID,omitempty" mapstructure:"cardID"`
	Suit     string `json:"suit,omitempty" mapstructure:"suit"`
}

// OutboundMessage is a message from the server to a player
type OutboundMessage struct {
	PlayerID string `json:"playerID"`
	Command  Cmd    `json:"command"`
	Message  string `json:"message,omitempty"`
	Joiner   Player `json:"joiner,omitempty"`
	View     *View  `json:"view,omitempty"`
	Error    string `json:"error,omitempty"`
}

type Cmd int

const (
	Null Cmd = iota
	NewJoiner
	Start
	HasStarted
	Error
	PlayCard
	Cantar
	Cambiar7
	DeclareVictory
	State // the receiving player's view of the table
	HandOver
	GameOver
)

var CmdNames = map[Cmd]string{
	Null:           "Null",
	NewJoiner:      "NewJoiner",
	Start:          "Start",
	HasStarted:     "HasStarted",
	Error:          "Error",
	PlayCard:       "PlayCard",
	Cantar:         "Cantar",
	Cambiar7:       "Cambiar7",
	DeclareVictory: "DeclareVictory",
	State:          "State",
	HandOver:       "HandOver",
	GameOver:       "GameOver",
}

var NameToCmd = map[string]Cmd{
	"Null":           Null,
	"NewJoiner":      NewJoiner,
	"Start":          Start,
	"HasStarted":     HasStarted,
	"Error":          Error,
	"PlayCard":       PlayCard,
	"Cantar":         Cantar,
	"Cambiar7":       Cambiar7,
	"DeclareVictory": DeclareVictory,
	"State":          State,
	"HandOver":       HandOver,
	"GameOver":       GameOver,
}

func (c Cmd) String() string {
	return CmdNames[c]
}

// ToAction turns a player's message into an engine action
func ToAction(msg InboundMessage) (game.Action, error) {
	switch msg.Command {
	case PlayCard:
		return game.PlayCard(msg.PlayerID, msg.CardID), nil
	case Cantar:
		suit, err := deck.ParseSuit(msg.Suit)
		if err != nil {
			return game.Action{}, err
		}
		return game.Cantar(msg.PlayerID, suit), nil
	case Cambiar7:
		return game.Cambiar7(msg.PlayerID), nil
	case DeclareVictory:
		return game.DeclareVictory(msg.PlayerID), nil
	}
	return game.Action{}, fmt.Errorf("%w: %s", ErrUnsupportedCmd, msg.Command)
}
