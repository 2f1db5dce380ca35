package main

import (
	"fmt"

	"github.com/minaorangina/guinote/game"
	"github.com/pterm/pterm"
)

func playerName(s game.GameState, id string) string {
	if seat, ok := s.Seat(id); ok {
		return s.Players[seat].Name
	}
	return id
}

func dealerName(s game.GameState) string {
	return s.Players[s.Dealer].Name
}

func teamName(s game.GameState, team int) string {
	return fmt.Sprintf("%s & %s", s.Players[team].Name, s.Players[game.Partner(team)].Name)
}

func printTrick(s game.GameState, last game.TrickCard) {
	played := append(append([]game.TrickCard{}, s.CurrentTrick...), last)
	line := ""
	for _, tc := range played {
		line += fmt.Sprintf("%s: %s  ", playerName(s, tc.PlayerID), tc.Card)
	}
	winner := game.ResolveTrick(played, s.TrumpSuit)
	pterm.Printfln("%s-> %s", line, pterm.LightCyan(playerName(s, winner)))
}

func printHand(s game.GameState, r game.HandResult, score game.MatchScore) {
	title := fmt.Sprintf("%s win the hand", teamName(s, r.Winner))
	if r.Malas {
		title += pterm.LightRed(" (30 malas)")
	}
	if r.Declared {
		title += " by declaring"
	}

	data := pterm.TableData{
		{"Team", "Points", "Partidas", "Cotos"},
	}
	for team := 0; team < 2; team++ {
		data = append(data, []string{
			teamName(s, team),
			fmt.Sprint(r.Scores[team]),
			fmt.Sprint(score.Partidas[team]),
			fmt.Sprint(score.Cotos[team]),
		})
	}

	pterm.DefaultSection.Println(title)
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Info.Printfln("now playing %s", score.CurrentSet)
}

func printVueltas(s game.GameState) {
	pterm.Warning.Printfln("nobody reached 101, vueltas: %s %d, %s %d",
		teamName(s, 0), s.InitialScores[0], teamName(s, 1), s.InitialScores[1])
}

func printWinner(m game.Match) {
	winner := m.Score.Winner()
	box := pterm.DefaultBox.WithTitle(pterm.LightGreen("|MATCH|")).WithTitleTopCenter()
	box.Println(fmt.Sprintf("%s win %d cotos to %d", teamName(m.State, winner), m.Score.Cotos[winner], m.Score.Cotos[1-winner]))
}
