package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pileOf(cards ...Card) *Player {
	p := NewPlayer("test")
	p.Captured = cards
	return p
}

func TestTallyPrimiera(t *testing.T) {
	s := tallyPile(pileOf(
		Card{Suit: Hearts, Rank: 7},   // 14
		Card{Suit: Hearts, Rank: 10},  // shadowed by the 7
		Card{Suit: Diamonds, Rank: 1}, // 13
		Card{Suit: Clubs, Rank: 9},    // 1
	))

	// no spades captured: that suit contributes nothing
	assert.Equal(t, 14+13+1, s.Primiera)
}

func TestTallyLadders(t *testing.T) {
	diamonds := func(ranks ...int) []Card {
		cards := make([]Card, len(ranks))
		for i, r := range ranks {
			cards[i] = Card{Suit: Diamonds, Rank: r}
		}
		return cards
	}

	tests := []struct {
		name       string
		ranks      []int
		highLadder bool
		lowLadder  int
	}{
		{"empty pile", nil, false, 0},
		{"high ladder complete", []int{8, 9, 10}, true, 0},
		{"high ladder incomplete", []int{8, 10}, false, 0},
		{"low ladder too short", []int{1, 2}, false, 0},
		{"low ladder of three", []int{1, 2, 3}, false, 3},
		{"low ladder broken", []int{1, 2, 4, 5}, false, 0},
		{"low ladder capped at seven", []int{1, 2, 3, 4, 5, 6, 7, 8}, false, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tallyPile(pileOf(diamonds(tt.ranks...)...))
			assert.Equal(t, tt.highLadder, s.HighLadder)
			assert.Equal(t, tt.lowLadder, s.LowLadder)
		})
	}
}

func TestScoreHandAwardsAndTies(t *testing.T) {
	// both players hold diamonds but only one the pretty seven
	a := pileOf(
		Card{Suit: Diamonds, Rank: 7}, // 14, settebello
		Card{Suit: Diamonds, Rank: 2},
		Card{Suit: Diamonds, Rank: 3},
	)
	a.Name = "alice"
	b := pileOf(
		Card{Suit: Hearts, Rank: 7},
		Card{Suit: Diamonds, Rank: 5},
		Card{Suit: Clubs, Rank: 9},
		Card{Suit: Spades, Rank: 4},
	)
	b.Name = "bob"

	scores := scoreHand([]*Player{a, b})
	require.Len(t, scores, 2)
	alice, bob := scores[0], scores[1]

	assert.True(t, alice.PrettySeven)
	assert.False(t, bob.PrettySeven)

	// bob has 4 cards to alice's 3
	assert.False(t, alice.MostCards)
	assert.True(t, bob.MostCards)

	// alice has 3 diamonds to bob's 1
	assert.True(t, alice.MostDiamonds)
	assert.False(t, bob.MostDiamonds)
}

func TestScoreHandPrimieraExactTieAwardsNobody(t *testing.T) {
	a := pileOf(Card{Suit: Hearts, Rank: 7}, Card{Suit: Diamonds, Rank: 7})
	a.Name = "alice"
	b := pileOf(Card{Suit: Clubs, Rank: 7}, Card{Suit: Spades, Rank: 7})
	b.Name = "bob"

	scores := scoreHand([]*Player{a, b})
	assert.Equal(t, scores[0].Primiera, scores[1].Primiera)
	assert.False(t, scores[0].BestPrimiera)
	assert.False(t, scores[1].BestPrimiera)
}

func TestScoreHandTotal(t *testing.T) {
	p := pileOf(
		Card{Suit: Diamonds, Rank: 7},
		Card{Suit: Diamonds, Rank: 8},
		Card{Suit: Diamonds, Rank: 9},
		Card{Suit: Diamonds, Rank: 10},
	)
	p.Name = "solo"
	p.Brooms = 2

	other := NewPlayer("empty")
	scores := scoreHand([]*Player{p, other})
	s := scores[0]

	require.True(t, s.PrettySeven)
	require.True(t, s.HighLadder)
	require.True(t, s.MostCards)
	require.True(t, s.MostDiamonds)
	require.True(t, s.BestPrimiera)
	assert.Equal(t, 0, s.LowLadder)

	// brooms 2 + four single-point awards + high ladder 5
	assert.Equal(t, 2+4+5, s.Total)
}
