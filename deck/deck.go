package deck

// Rand is the randomness a shuffle consumes. *rand.Rand from math/rand and from
// golang.org/x/exp/rand both satisfy it.
type Rand interface {
	Intn(n int) int
}

// Deck represents a pile of cards. The top of the pile is the last element.
type Deck []Card

// Size is the number of cards in a full deck
const Size = 40

// New creates the 40-card Spanish deck
func New() Deck {
	cards := make(Deck, 0, Size)
	for _, suit := range Suits {
		for _, value := range Values {
			cards = append(cards, NewCard(value, suit))
		}
	}
	return cards
}

// Shuffle returns a uniformly permuted copy of the deck
func (d Deck) Shuffle(r Rand) Deck {
	out := make(Deck, len(d))
	copy(out, d)
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deal takes n cards off the top of the deck. It returns no cards if n is out of range.
func (d *Deck) Deal(n int) []Card {
	numCardsInDeck := len(*d)
	if n < 0 || n > numCardsInDeck {
		return []Card{}
	}
	startingIndex := numCardsInDeck - n
	dealt := make([]Card, n)
	copy(dealt, (*d)[startingIndex:])
	*d = (*d)[:startingIndex]
	return dealt
}

// Without returns a copy of the deck minus the given cards
func (d Deck) Without(cards ...Card) Deck {
	out := make(Deck, 0, len(d))
	for _, c := range d {
		if !Contains(cards, c) {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether target is among cards
func Contains(cards []Card, target Card) bool {
	return IndexOf(cards, target) >= 0
}

// IndexOf returns the position of target in cards, or -1
func IndexOf(cards []Card, target Card) int {
	for i, c := range cards {
		if c == target {
			return i
		}
	}
	return -1
}

// Remove returns a copy of cards without the first occurrence of target
func Remove(cards []Card, target Card) []Card {
	out := make([]Card, 0, len(cards))
	removed := false
	for _, c := range cards {
		if !removed && c == target {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

// Points sums the capture value of the cards
func Points(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

// OfSuit returns the cards of the given suit, in order
func OfSuit(cards []Card, suit Suit) []Card {
	out := []Card{}
	for _, c := range cards {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}
