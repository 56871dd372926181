package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasFortyUniqueCards(t *testing.T) {
	d := NewDeck(nil)
	require.Equal(t, DeckSize, d.Remaining())

	seen := make(map[Card]bool, DeckSize)
	for _, c := range d.cards {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	a := NewDeck(rand.New(rand.NewSource(42)))
	b := NewDeck(rand.New(rand.NewSource(42)))
	a.Shuffle()
	b.Shuffle()
	assert.Equal(t, a.cards, b.cards)
}

func TestDealAndReturn(t *testing.T) {
	d := NewDeck(nil)

	dealt := d.Deal(4)
	require.Len(t, dealt, 4)
	assert.Equal(t, DeckSize-4, d.Remaining())
	assert.False(t, d.Full())

	d.Return(dealt)
	assert.True(t, d.Full())
}

func TestDealMoreThanRemaining(t *testing.T) {
	d := &Deck{cards: hearts(1, 2)}
	assert.Nil(t, d.Deal(3))
	assert.Equal(t, 2, d.Remaining())
}
