package game

import "github.com/minaorangina/guinote/deck"

// SetLabel names the state of the current coto for display
type SetLabel string

const (
	SetBuenas SetLabel = "buenas"
	SetMalas  SetLabel = "malas"
	SetBella  SetLabel = "bella"
)

const (
	DefaultPartidasPerCoto = 3
	DefaultCotosPerMatch   = 2
)

// MatchScore is the partida/coto ladder of a match. It outlives the hands.
type MatchScore struct {
	Partidas        [numTeams]int `json:"partidas"`
	Cotos           [numTeams]int `json:"cotos"`
	PartidasPerCoto int           `json:"partidasPerCoto"`
	CotosPerMatch   int           `json:"cotosPerMatch"`
	CurrentSet      SetLabel      `json:"currentSet"`
}

// NewMatchScore starts an empty ladder. Non-positive limits fall back to the defaults.
func NewMatchScore(partidasPerCoto, cotosPerMatch int) MatchScore {
	if partidasPerCoto <= 0 {
		partidasPerCoto = DefaultPartidasPerCoto
	}
	if cotosPerMatch <= 0 {
		cotosPerMatch = DefaultCotosPerMatch
	}
	return MatchScore{
		PartidasPerCoto: partidasPerCoto,
		CotosPerMatch:   cotosPerMatch,
		CurrentSet:      SetBuenas,
	}
}

// AwardPartida credits team with a won hand. Reaching PartidasPerCoto wins a coto
// and both partida counters start again.
func (m MatchScore) AwardPartida(team int) MatchScore {
	m.Partidas[team]++
	if m.Partidas[team] >= m.PartidasPerCoto {
		m.Cotos[team]++
		m.Partidas = [numTeams]int{}
	}
	m.CurrentSet = labelFor(m.Partidas)
	return m
}

func labelFor(partidas [numTeams]int) SetLabel {
	switch {
	case partidas[0] == 0 && partidas[1] == 0:
		return SetBuenas
	case partidas[0] == partidas[1]:
		return SetBella
	default:
		return SetMalas
	}
}

// Complete reports whether a team has won enough cotos to take the match
func (m MatchScore) Complete() bool {
	return m.Winner() >= 0
}

// Winner returns the team that has won the match, or -1
func (m MatchScore) Winner() int {
	for team, cotos := range m.Cotos {
		if cotos >= m.CotosPerMatch {
			return team
		}
	}
	return -1
}

// StartNewPartida readies the table for the next hand: the deal passes to the next
// seat and the previous dealer leads.
func StartNewPartida(s GameState) GameState {
	next := s.Clone()
	previous := next.Dealer
	next.Dealer = nextSeat(previous)
	next.Lead = previous
	next.CurrentPlayer = next.Lead

	for i := range next.Teams {
		next.Teams[i].Score = 0
		next.Teams[i].CardPoints = 0
		next.Teams[i].Cantes = []deck.Suit{}
	}
	next.IsVueltas = false
	next.InitialScores = nil
	next.VictoryThreshold = nil
	next.Result = nil
	next.Phase = PhaseDealing
	return next
}
