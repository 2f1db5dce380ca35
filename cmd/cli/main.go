// Command cli plays a full match between four bots and prints it
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/minaorangina/guinote/config"
	"github.com/minaorangina/guinote/deck"
	"github.com/minaorangina/guinote/game"
	"github.com/pterm/pterm"
	"golang.org/x/exp/rand"
)

const maxMoves = 10000

func main() {
	seedFlag := flag.Uint64("seed", 0, "shuffle seed, 0 for a random one")
	tricksFlag := flag.Bool("tricks", false, "print every trick")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewSource(seed))

	var players [4]game.Player
	for i, name := range []string{"Ana", "Beto", "Carla", "Dani"} {
		players[i] = game.Player{ID: fmt.Sprintf("bot-%d", i), Name: name, IsBot: true}
	}

	m, err := game.NewMatch(fmt.Sprintf("cli-%d", seed), players, r.Intn(4), cfg.MatchOpts(), r)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	pterm.DefaultHeader.WithFullWidth().Println("Guiñote")
	pterm.Info.Printfln("seed %d, %s deals, trumps are %s", seed, dealerName(m.State), m.State.TrumpCard)

	for moves := 0; !m.Over(); moves++ {
		if moves >= maxMoves {
			pterm.Error.Printfln("no result after %d moves", maxMoves)
			os.Exit(1)
		}

		before := m
		var played *game.TrickCard
		m, played, err = step(m, r)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}

		if *tricksFlag && played != nil && len(before.State.CurrentTrick) == 3 {
			printTrick(before.State, *played)
		}
		if m.LastHand != before.LastHand && m.LastHand != nil {
			printHand(before.State, *m.LastHand, m.Score)
			if !m.Over() {
				pterm.Info.Printfln("%s deals, trumps are %s", dealerName(m.State), m.State.TrumpCard)
			}
		}
		if m.State.IsVueltas && !before.State.IsVueltas {
			printVueltas(m.State)
		}
	}

	printWinner(m)
}

// step makes the current player's move: any cante or seven exchange they are
// entitled to, then a random legal card. The card is returned when one was played.
func step(m game.Match, r *rand.Rand) (game.Match, *game.TrickCard, error) {
	id := m.State.CurrentPlayerID()

	if next, err := m.Apply(game.DeclareVictory(id), r); err == nil {
		pterm.Success.Printfln("%s declares victory", playerName(m.State, id))
		return next, nil, nil
	}
	if next, err := m.Apply(game.Cambiar7(id), r); err == nil {
		pterm.Info.Printfln("%s changes the seven for %s", playerName(m.State, id), m.State.TrumpCard)
		m = next
	}
	for _, suit := range deck.Suits {
		if next, err := m.Apply(game.Cantar(id, suit), r); err == nil {
			pterm.Info.Printfln("%s cantas en %s", playerName(m.State, id), suit)
			m = next
		}
	}

	moves := game.LegalPlays(m.State, id)
	if len(moves) == 0 {
		return m, nil, fmt.Errorf("%s has no legal play in %s", id, m.State.Phase)
	}
	card := moves[r.Intn(len(moves))]
	next, err := m.Apply(game.PlayCard(id, card.ID()), r)
	if err != nil {
		return m, nil, err
	}
	return next, &game.TrickCard{PlayerID: id, Card: card}, nil
}
