package game

import (
	"fmt"

	"github.com/minaorangina/guinote/deck"
	"golang.org/x/exp/rand"
)

func testPlayers() [numPlayers]Player {
	var players [numPlayers]Player
	for i := range players {
		players[i] = Player{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("player %d", i)}
	}
	return players
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func cards(ids ...string) []deck.Card {
	out := make([]deck.Card, 0, len(ids))
	for _, id := range ids {
		out = append(out, deck.MustParse(id))
	}
	return out
}

func trick(plays ...string) []TrickCard {
	out := []TrickCard{}
	for i := 0; i+1 < len(plays); i += 2 {
		out = append(out, TrickCard{PlayerID: plays[i], Card: deck.MustParse(plays[i+1])})
	}
	return out
}

// arrange builds a hand in progress dealt by seat 2, so seat 1 leads. pile is
// listed bottom first. Every card not in a hand or the pile is treated as
// already captured, alternating between the teams, so the state validates.
func arrange(hands [numPlayers][]string, pile []string, trump string) GameState {
	s := NewGame(testPlayers(), 2)
	s.TrumpCard = deck.MustParse(trump)
	s.TrumpSuit = s.TrumpCard.Suit
	s.DrawPile = deck.Deck(cards(pile...))

	used := append(deck.Deck{}, s.DrawPile...)
	for i, ids := range hands {
		hand := cards(ids...)
		s.Hands[s.Players[i].ID] = hand
		used = append(used, hand...)
	}
	for i, c := range deck.New().Without(used...) {
		s.Captured[i%numTeams] = append(s.Captured[i%numTeams], c)
	}

	s.Phase = PhasePlaying
	if len(s.DrawPile) == 0 {
		s.Phase = PhaseArrastre
	}
	return s
}

// lastTrick sets up the final trick of a hand: seat 0 leads the four of oros
// and takes it without points, whatever the scores were going in.
func lastTrick(scores, cardPoints [numTeams]int) GameState {
	s := arrange([numPlayers][]string{
		{"oros-4"},
		{"copas-2"},
		{"oros-2"},
		{"espadas-2"},
	}, nil, "bastos-5")
	s.TrickCount = 9
	s.LastTrickWinner = 0
	s.CurrentPlayer = 0
	for i := range s.Teams {
		s.Teams[i].Score = scores[i]
		s.Teams[i].CardPoints = cardPoints[i]
	}
	return s
}

func playAll(s GameState, moves ...string) (GameState, error) {
	var err error
	for i := 0; i+1 < len(moves); i += 2 {
		s, err = Play(s, moves[i], deck.MustParse(moves[i+1]))
		if err != nil {
			return s, err
		}
	}
	return s, nil
}
