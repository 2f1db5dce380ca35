package game

import (
	"github.com/minaorangina/guinote/deck"
)

// TeamOf returns the team a seat belongs to
func TeamOf(seat int) int {
	return seat % numTeams
}

// Partner returns the seat opposite
func Partner(seat int) int {
	return (seat + 2) % numPlayers
}

func nextSeat(seat int) int {
	return (seat + 1) % numPlayers
}

// the mano sits just before the dealer in play order
func leadFor(dealer int) int {
	return (dealer + numPlayers - 1) % numPlayers
}

func cloneCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return nil
	}
	return append([]deck.Card{}, cards...)
}

func trickCards(trick []TrickCard) []deck.Card {
	cards := make([]deck.Card, 0, len(trick))
	for _, tc := range trick {
		cards = append(cards, tc.Card)
	}
	return cards
}

func holds(hand []deck.Card, value deck.Value, suit deck.Suit) bool {
	return deck.Contains(hand, deck.Card{Suit: suit, Value: value})
}

func inPlay(phase Phase) bool {
	return phase == PhasePlaying || phase == PhaseArrastre
}
