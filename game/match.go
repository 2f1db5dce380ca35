package game

import (
	"fmt"

	"github.com/minaorangina/guinote/deck"
)

// MatchOpts configures the ladder. Zero values mean the defaults.
type MatchOpts struct {
	PartidasPerCoto int
	CotosPerMatch   int
}

// Match couples the hand in progress with the ladder it counts towards
type Match struct {
	ID       string      `json:"id"`
	State    GameState   `json:"state"`
	Score    MatchScore  `json:"score"`
	LastHand *HandResult `json:"lastHand,omitempty"`
	// Moves counts accepted actions. Callers use it to spot stale work.
	Moves int `json:"moves"`
}

// NewMatch seats the players and deals the first hand
func NewMatch(id string, players [numPlayers]Player, dealer int, opts MatchOpts, r deck.Rand) (Match, error) {
	m := Match{
		ID:    id,
		State: NewGame(players, dealer),
		Score: NewMatchScore(opts.PartidasPerCoto, opts.CotosPerMatch),
	}
	state, err := Deal(m.State, r)
	if err != nil {
		return Match{}, fmt.Errorf("deal first hand: %w", err)
	}
	m.State = state
	return m, nil
}

// Over reports whether the match has been decided
func (m Match) Over() bool {
	return m.State.Phase == PhaseGameOver
}

// Apply plays a on the current hand. When the action finishes a hand the ladder is
// updated and, unless the match is over, the next hand is dealt using r.
func (m Match) Apply(a Action, r deck.Rand) (Match, error) {
	if m.Over() {
		return m, ErrMatchOver
	}
	state, err := Apply(m.State, a)
	if err != nil {
		return m, err
	}

	next := m
	next.State = state
	next.Moves++
	return next.advance(r)
}

func (m Match) advance(r deck.Rand) (Match, error) {
	switch m.State.Phase {
	case PhaseDealing:
		// vueltas
		state, err := Deal(m.State, r)
		if err != nil {
			return m, err
		}
		m.State = state

	case PhaseScoring:
		if m.State.Result == nil {
			return m, fmt.Errorf("%w: scoring without a result", ErrInvalidGameState)
		}
		result := *m.State.Result
		m.LastHand = &result
		m.Score = m.Score.AwardPartida(result.Winner)
		if m.Score.Complete() {
			m.State.Phase = PhaseGameOver
			return m, nil
		}
		state, err := Deal(StartNewPartida(m.State), r)
		if err != nil {
			return m, err
		}
		m.State = state
	}
	return m, nil
}
