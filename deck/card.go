package deck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownSuit   = errors.New("unknown suit")
	ErrUnknownValue  = errors.New("unknown card value")
	ErrMalformedCard = errors.New("malformed card id")
)

// Suit represents a suit in the Spanish deck
type Suit int

const (
	Oros Suit = iota
	Copas
	Espadas
	Bastos
)

// Suits lists the suits in deck order
var Suits = []Suit{Oros, Copas, Espadas, Bastos}

var suitNames = []string{"oros", "copas", "espadas", "bastos"}

func (s Suit) String() string {
	if s < Oros || s > Bastos {
		return "unknown"
	}
	return suitNames[s]
}

// ParseSuit returns the suit with the given name
func ParseSuit(name string) (Suit, error) {
	for i, n := range suitNames {
		if strings.EqualFold(n, name) {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSuit, name)
}

func (s Suit) MarshalText() ([]byte, error) {
	if s < Oros || s > Bastos {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSuit, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(text []byte) error {
	parsed, err := ParseSuit(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value is the number printed on a card. The Spanish deck has no eights or nines.
type Value int

const (
	As      Value = 1
	Dos     Value = 2
	Tres    Value = 3
	Cuatro  Value = 4
	Cinco   Value = 5
	Seis    Value = 6
	Siete   Value = 7
	Sota    Value = 10
	Caballo Value = 11
	Rey     Value = 12
)

// Values lists the card values in deck order
var Values = []Value{As, Dos, Tres, Cuatro, Cinco, Seis, Siete, Sota, Caballo, Rey}

var valueNames = map[Value]string{
	As:      "As",
	Dos:     "Dos",
	Tres:    "Tres",
	Cuatro:  "Cuatro",
	Cinco:   "Cinco",
	Seis:    "Seis",
	Siete:   "Siete",
	Sota:    "Sota",
	Caballo: "Caballo",
	Rey:     "Rey",
}

// capture value of each card; everything else is worth nothing
var points = map[Value]int{
	As:      11,
	Tres:    10,
	Rey:     4,
	Caballo: 3,
	Sota:    2,
}

// trick-taking power, weakest first
var rankOrder = []Value{Dos, Cuatro, Cinco, Seis, Siete, Sota, Caballo, Rey, Tres, As}

var ranks = func() map[Value]int {
	m := make(map[Value]int, len(rankOrder))
	for i, v := range rankOrder {
		m[v] = i
	}
	return m
}()

func (v Value) String() string {
	if name, ok := valueNames[v]; ok {
		return name
	}
	return strconv.Itoa(int(v))
}

// Valid reports whether v belongs to the Spanish deck
func (v Value) Valid() bool {
	_, ok := valueNames[v]
	return ok
}

// Card is an immutable suit and value pair
type Card struct {
	Suit  Suit  `json:"suit"`
	Value Value `json:"value"`
}

// NewCard constructs a card. It panics on values outside the deck.
func NewCard(value Value, suit Suit) Card {
	if !value.Valid() || suit < Oros || suit > Bastos {
		panic(fmt.Sprintf("card out of range: value %d, suit %d", value, suit))
	}
	return Card{Suit: suit, Value: value}
}

// ID is the stable identifier of a card, e.g. "oros-12"
func (c Card) ID() string {
	return fmt.Sprintf("%s-%d", c.Suit, c.Value)
}

// ParseID is the inverse of Card.ID
func ParseID(id string) (Card, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrMalformedCard, id)
	}
	suit, err := ParseSuit(parts[0])
	if err != nil {
		return Card{}, err
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || !Value(n).Valid() {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownValue, parts[1])
	}
	return Card{Suit: suit, Value: Value(n)}, nil
}

// MustParse is ParseID for literals known to be valid
func MustParse(id string) Card {
	c, err := ParseID(id)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Card) String() string {
	return fmt.Sprintf("%s de %s", c.Value, c.Suit)
}

// Points is the capture value of the card
func (c Card) Points() int {
	return points[c.Value]
}

// Rank is the card's trick-taking power within its suit. Higher wins.
func (c Card) Rank() int {
	return ranks[c.Value]
}

// Outranks reports whether c beats o when both are of the same suit
func (c Card) Outranks(o Card) bool {
	return c.Suit == o.Suit && c.Rank() > o.Rank()
}
