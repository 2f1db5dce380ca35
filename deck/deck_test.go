package deck

import (
	"testing"

	utils "github.com/minaorangina/guinote/internal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestDeck(t *testing.T) {
	d := New()

	t.Run("has 40 distinct cards", func(t *testing.T) {
		utils.AssertEqual(t, len(d), Size)

		set := map[Card]struct{}{}
		for _, c := range d {
			set[c] = struct{}{}
		}
		utils.AssertEqual(t, len(set), Size)
	})

	t.Run("has no eights or nines", func(t *testing.T) {
		for _, c := range d {
			assert.NotContains(t, []Value{8, 9}, c.Value)
		}
	})

	t.Run("points add up to 120", func(t *testing.T) {
		utils.AssertEqual(t, Points(d), 120)
	})

	t.Run("has ten cards per suit", func(t *testing.T) {
		for _, s := range Suits {
			utils.AssertEqual(t, len(OfSuit(d, s)), 10)
		}
	})
}

func TestShuffle(t *testing.T) {
	t.Run("preserves the multiset of cards", func(t *testing.T) {
		for seed := uint64(0); seed < 50; seed++ {
			shuffled := New().Shuffle(rand.New(rand.NewSource(seed)))
			assert.ElementsMatch(t, New(), shuffled)
		}
	})

	t.Run("does not modify the original", func(t *testing.T) {
		d := New()
		d.Shuffle(rand.New(rand.NewSource(7)))
		utils.AssertDeepEqual(t, d, New())
	})

	t.Run("is reproducible from the same source", func(t *testing.T) {
		a := New().Shuffle(rand.New(rand.NewSource(99)))
		b := New().Shuffle(rand.New(rand.NewSource(99)))
		utils.AssertDeepEqual(t, a, b)
	})

	t.Run("different sources give different orders", func(t *testing.T) {
		a := New().Shuffle(rand.New(rand.NewSource(1)))
		b := New().Shuffle(rand.New(rand.NewSource(2)))
		assert.NotEqual(t, a, b)
	})
}

func TestDeal(t *testing.T) {
	t.Run("deals from the top", func(t *testing.T) {
		d := New()
		top := d[len(d)-1]

		dealt := d.Deal(1)
		utils.AssertEqual(t, len(dealt), 1)
		utils.AssertEqual(t, dealt[0], top)
		utils.AssertEqual(t, len(d), Size-1)
	})

	t.Run("refuses to deal more than the deck holds", func(t *testing.T) {
		d := New()
		utils.AssertEqual(t, len(d.Deal(41)), 0)
		utils.AssertEqual(t, len(d.Deal(-1)), 0)
		utils.AssertEqual(t, len(d), Size)
	})

	t.Run("dealt cards do not alias the deck", func(t *testing.T) {
		d := New()
		dealt := d.Deal(2)
		d = append(d, NewCard(As, Oros))
		assert.NotEqual(t, NewCard(As, Oros), dealt[0])
	})
}

func TestHelpers(t *testing.T) {
	hand := []Card{MustParse("oros-1"), MustParse("copas-3"), MustParse("oros-12")}

	assert.True(t, Contains(hand, MustParse("copas-3")))
	assert.False(t, Contains(hand, MustParse("copas-1")))
	utils.AssertDeepEqual(t, Remove(hand, MustParse("copas-3")), []Card{MustParse("oros-1"), MustParse("oros-12")})
	utils.AssertEqual(t, len(hand), 3)
	utils.AssertEqual(t, Points(hand), 25)
	utils.AssertDeepEqual(t, OfSuit(hand, Oros), []Card{MustParse("oros-1"), MustParse("oros-12")})
	utils.AssertEqual(t, len(New().Without(hand...)), Size-3)
}
