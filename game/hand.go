package game

import (
	"fmt"

	"github.com/minaorangina/guinote/deck"
)

// Deal shuffles, deals six cards to each player starting with the lead, and turns
// up the trump card. In vueltas the face-up card from the previous hand is kept
// and only the other 39 cards are shuffled.
func Deal(s GameState, r deck.Rand) (GameState, error) {
	if s.Phase != PhaseDealing {
		return s, fmt.Errorf("%w: cannot deal in %s", ErrWrongPhase, s.Phase)
	}

	next := s.Clone()
	cards := deck.New()
	if next.IsVueltas {
		cards = cards.Without(next.TrumpCard)
	}
	pile := cards.Shuffle(r)

	next.Hands = make(map[string][]deck.Card, numPlayers)
	for _, p := range next.Players {
		next.Hands[p.ID] = make([]deck.Card, 0, handSize)
	}
	for round := 0; round < handSize; round++ {
		for i := 0; i < numPlayers; i++ {
			id := next.Players[(next.Lead+i)%numPlayers].ID
			next.Hands[id] = append(next.Hands[id], pile.Deal(1)...)
		}
	}

	if !next.IsVueltas {
		next.TrumpCard = pile.Deal(1)[0]
		next.TrumpSuit = next.TrumpCard.Suit
	}
	next.DrawPile = append(deck.Deck{next.TrumpCard}, pile...)

	next.CurrentTrick = []TrickCard{}
	for i := range next.Captured {
		next.Captured[i] = []deck.Card{}
	}
	next.TrickCount = 0
	next.LastTrickWinner = -1
	next.CanCambiar7 = true
	next.CurrentPlayer = next.Lead
	next.Result = nil
	next.Phase = PhasePlaying
	return next, nil
}

// Play puts a card from playerID's hand onto the trick. The fourth card resolves
// the trick, refills the hands from the draw pile and, after the last trick,
// scores the hand.
func Play(s GameState, playerID string, card deck.Card) (GameState, error) {
	if !inPlay(s.Phase) {
		return s, fmt.Errorf("%w: cannot play a card in %s", ErrWrongPhase, s.Phase)
	}
	seat, ok := s.Seat(playerID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if seat != s.CurrentPlayer {
		return s, fmt.Errorf("%w: waiting for %s", ErrWrongTurn, s.CurrentPlayerID())
	}
	if err := CheckPlay(card, s.Hands[playerID], s.CurrentTrick, s.TrumpSuit, s.Phase); err != nil {
		return s, err
	}

	next := s.Clone()
	next.Hands[playerID] = deck.Remove(next.Hands[playerID], card)
	next.CurrentTrick = append(next.CurrentTrick, TrickCard{PlayerID: playerID, Card: card})

	if len(next.CurrentTrick) < numPlayers {
		next.CurrentPlayer = nextSeat(seat)
		return next, nil
	}

	next.finishTrick()
	return next, nil
}

func (s *GameState) finishTrick() {
	winnerID := ResolveTrick(s.CurrentTrick, s.TrumpSuit)
	winner, _ := s.Seat(winnerID)
	team := TeamOf(winner)

	points := TrickPoints(s.CurrentTrick)
	s.Teams[team].Score += points
	s.Teams[team].CardPoints += points
	s.Captured[team] = append(s.Captured[team], trickCards(s.CurrentTrick)...)

	s.CurrentTrick = []TrickCard{}
	s.TrickCount++
	s.LastTrickWinner = winner
	s.CurrentPlayer = winner

	if len(s.DrawPile) > 0 {
		for i := 0; i < numPlayers && len(s.DrawPile) > 0; i++ {
			id := s.Players[(winner+i)%numPlayers].ID
			s.Hands[id] = append(s.Hands[id], s.DrawPile.Deal(1)...)
		}
		if len(s.DrawPile) == 0 {
			s.Phase = PhaseArrastre
		}
		return
	}

	if s.HandsEmpty() {
		s.Teams[team].Score += lastTrickBonus
		s.scoreHand()
	}
}

// scoreHand decides the hand once every card has been played. A team needs 101
// to win; if nobody gets there the hand goes to vueltas.
func (s *GameState) scoreHand() {
	s.Phase = PhaseScoring

	var totals [numTeams]int
	for i := range totals {
		totals[i] = s.CombinedScore(i)
	}

	winner := -1
	switch a, b := totals[0] >= winningScore, totals[1] >= winningScore; {
	case a && b:
		switch {
		case totals[0] > totals[1]:
			winner = 0
		case totals[1] > totals[0]:
			winner = 1
		default:
			winner = TeamOf(s.LastTrickWinner)
		}
	case a:
		winner = 0
	case b:
		winner = 1
	}

	if winner < 0 {
		s.startVueltas(totals)
		return
	}
	s.settle(winner, totals, false)
}

// settle records the hand for winner. If the losers took fewer than 30 points in
// cards the winners are recorded at exactly 101.
func (s *GameState) settle(winner int, totals [numTeams]int, declared bool) {
	result := HandResult{Winner: winner, Scores: totals, Declared: declared}
	if s.Teams[1-winner].CardPoints < minCardPoints {
		result.Malas = true
		result.Scores[winner] = winningScore
		s.Teams[winner].Score = winningScore
		if s.InitialScores != nil {
			s.Teams[winner].Score -= s.InitialScores[winner]
		}
	}
	s.Result = &result
	s.Phase = PhaseScoring
}

func (s *GameState) startVueltas(totals [numTeams]int) {
	snapshot := totals
	s.InitialScores = &snapshot

	var threshold [numTeams]int
	for i := range threshold {
		threshold[i] = winningScore - snapshot[i]
	}
	s.VictoryThreshold = &threshold

	for i := range s.Teams {
		s.Teams[i].Score = 0
		s.Teams[i].CardPoints = 0
		s.Teams[i].Cantes = []deck.Suit{}
	}
	s.IsVueltas = true
	s.Result = nil
	s.Phase = PhaseDealing
}

// ClaimVictory ends a vueltas hand early for playerID's team. It is only allowed
// between tricks and once the team's combined score has reached 101; a wrong
// claim is rejected and play continues.
func ClaimVictory(s GameState, playerID string) (GameState, error) {
	if !inPlay(s.Phase) {
		return s, fmt.Errorf("%w: cannot declare in %s", ErrWrongPhase, s.Phase)
	}
	seat, ok := s.Seat(playerID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if !s.IsVueltas || s.VictoryThreshold == nil {
		return s, fmt.Errorf("%w: only during vueltas", ErrVictoryDeclarationUnmet)
	}
	if len(s.CurrentTrick) != 0 {
		return s, fmt.Errorf("%w: trick in progress", ErrVictoryDeclarationUnmet)
	}
	team := TeamOf(seat)
	if s.Teams[team].Score < s.VictoryThreshold[team] {
		return s, fmt.Errorf("%w: team has %d of %d", ErrVictoryDeclarationUnmet, s.CombinedScore(team), winningScore)
	}

	next := s.Clone()
	var totals [numTeams]int
	for i := range totals {
		totals[i] = next.CombinedScore(i)
	}
	next.settle(team, totals, true)
	return next, nil
}
