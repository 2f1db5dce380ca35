package game

import (
	"fmt"

	"github.com/minaorangina/guinote/deck"
)

// mayDeclare reports whether seat is in a position to cante or change the seven:
// nobody has led the next trick yet, and seat's team took the last one. Before
// the first trick only the lead may declare.
func (s GameState) mayDeclare(seat int) bool {
	if len(s.CurrentTrick) != 0 {
		return false
	}
	if s.TrickCount == 0 {
		return seat == s.Lead
	}
	return s.LastTrickWinner >= 0 && TeamOf(s.LastTrickWinner) == TeamOf(seat)
}

// Cante declares the rey and caballo of suit held by playerID. Twenty points, or
// forty in trumps, go to the team. Each team may declare each suit once per hand.
func Cante(s GameState, playerID string, suit deck.Suit) (GameState, error) {
	if !inPlay(s.Phase) {
		return s, fmt.Errorf("%w: cannot cante in %s", ErrWrongPhase, s.Phase)
	}
	seat, ok := s.Seat(playerID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	team := TeamOf(seat)
	if s.Teams[team].HasCantado(suit) {
		return s, fmt.Errorf("%w: %s", ErrCanteAlreadyDeclared, suit)
	}
	if !s.mayDeclare(seat) {
		return s, ErrCanteTiming
	}
	hand := s.Hands[playerID]
	if !holds(hand, deck.Rey, suit) || !holds(hand, deck.Caballo, suit) {
		return s, fmt.Errorf("%w: %s", ErrCanteMissingPair, suit)
	}

	points := cantePoints
	if suit == s.TrumpSuit {
		points = canteTrumpPoints
	}

	next := s.Clone()
	next.Teams[team].Score += points
	next.Teams[team].Cantes = append(next.Teams[team].Cantes, suit)
	return next, nil
}

// ExchangeSeven swaps the seven of trumps in playerID's hand for the face-up
// trump card. It can only happen once per hand, while there are cards to draw.
func ExchangeSeven(s GameState, playerID string) (GameState, error) {
	if !inPlay(s.Phase) {
		return s, fmt.Errorf("%w: cannot exchange in %s", ErrWrongPhase, s.Phase)
	}
	seat, ok := s.Seat(playerID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	switch {
	case !s.mayDeclare(seat):
		return s, fmt.Errorf("%w: not this player's moment", ErrCambiar7Unmet)
	case len(s.DrawPile) == 0:
		return s, fmt.Errorf("%w: draw pile is empty", ErrCambiar7Unmet)
	case !s.CanCambiar7:
		return s, fmt.Errorf("%w: already exchanged this hand", ErrCambiar7Unmet)
	case s.TrumpCard.Value == deck.Siete:
		return s, fmt.Errorf("%w: the seven is the face-up card", ErrCambiar7Unmet)
	case !holds(s.Hands[playerID], deck.Siete, s.TrumpSuit):
		return s, fmt.Errorf("%w: seven of %s not in hand", ErrCambiar7Unmet, s.TrumpSuit)
	}

	seven := deck.NewCard(deck.Siete, s.TrumpSuit)
	next := s.Clone()
	hand := deck.Remove(next.Hands[playerID], seven)
	next.Hands[playerID] = append(hand, next.TrumpCard)
	next.DrawPile[0] = seven
	next.TrumpCard = seven
	next.CanCambiar7 = false
	return next, nil
}
