package game

import (
	"fmt"

	"github.com/minaorangina/guinote/deck"
)

// CheckPlay returns nil if card may be played from hand onto the current trick,
// or the rule it breaks.
func CheckPlay(card deck.Card, hand []deck.Card, trick []TrickCard, trump deck.Suit, phase Phase) error {
	if !deck.Contains(hand, card) {
		return fmt.Errorf("%w: %s", ErrCardNotInHand, card.ID())
	}
	// the leader plays anything
	if len(trick) == 0 {
		return nil
	}

	leadSuit := trick[0].Card.Suit
	followers := deck.OfSuit(hand, leadSuit)

	if len(followers) > 0 {
		if card.Suit != leadSuit {
			return fmt.Errorf("%w: %s led", ErrMustFollow, leadSuit)
		}
		if phase != PhaseArrastre {
			return nil
		}
		best := trick[winningIndex(trick, trump)].Card
		// once a trump has cut a plain suit, no card of that suit can win
		if best.Suit != leadSuit || beats(card, best, trump) {
			return nil
		}
		for _, c := range followers {
			if beats(c, best, trump) {
				return fmt.Errorf("%w: %s is winning", ErrMustBeat, best.ID())
			}
		}
		return nil
	}

	if phase != PhaseArrastre {
		return nil
	}
	if card.Suit != trump && len(deck.OfSuit(hand, trump)) > 0 {
		return fmt.Errorf("%w: no %s left, %s in hand", ErrMustTrump, leadSuit, trump)
	}
	return nil
}

// IsLegalPlay reports whether CheckPlay accepts the card
func IsLegalPlay(card deck.Card, hand []deck.Card, trick []TrickCard, trump deck.Suit, phase Phase) bool {
	return CheckPlay(card, hand, trick, trump, phase) == nil
}

// LegalPlays lists the cards playerID may play now. It is empty when it isn't
// their turn.
func LegalPlays(s GameState, playerID string) []deck.Card {
	moves := []deck.Card{}
	seat, ok := s.Seat(playerID)
	if !ok || !inPlay(s.Phase) || seat != s.CurrentPlayer {
		return moves
	}
	hand := s.Hands[playerID]
	for _, c := range hand {
		if IsLegalPlay(c, hand, s.CurrentTrick, s.TrumpSuit, s.Phase) {
			moves = append(moves, c)
		}
	}
	return moves
}

// ResolveTrick returns the id of the player who takes a complete trick. Any trump
// beats any plain card; otherwise the highest card of the lead suit wins.
func ResolveTrick(trick []TrickCard, trump deck.Suit) string {
	if len(trick) != numPlayers {
		panic(fmt.Sprintf("resolve trick: want %d cards, got %d", numPlayers, len(trick)))
	}
	return trick[winningIndex(trick, trump)].PlayerID
}

// TrickPoints sums the capture value of the cards in a trick
func TrickPoints(trick []TrickCard) int {
	return deck.Points(trickCards(trick))
}

// winningIndex works on partial tricks too
func winningIndex(trick []TrickCard, trump deck.Suit) int {
	best := 0
	for i := 1; i < len(trick); i++ {
		if beats(trick[i].Card, trick[best].Card, trump) {
			best = i
		}
	}
	return best
}

// beats reports whether challenger takes over from the card currently winning.
// The winning card is always of the lead suit or a trump.
func beats(challenger, winning deck.Card, trump deck.Suit) bool {
	if challenger.Suit == winning.Suit {
		return challenger.Outranks(winning)
	}
	return challenger.Suit == trump
}

// LowestLegalPlay picks the legal card worth the fewest points, the weakest of
// those on a tie. It is what a player who runs out of time, or a bot, plays.
func LowestLegalPlay(s GameState, playerID string) (deck.Card, bool) {
	moves := LegalPlays(s, playerID)
	if len(moves) == 0 {
		return deck.Card{}, false
	}
	best := moves[0]
	for _, c := range moves[1:] {
		if c.Points() < best.Points() || (c.Points() == best.Points() && c.Rank() < best.Rank()) {
			best = c
		}
	}
	return best, true
}
