package game

import (
	"math/rand"
)

// DeckSize is the number of cards in a full Cirulla deck.
const DeckSize = 40

// Deck holds the undealt portion of the 40-card deck.
type Deck struct {
	cards []Card
	rng   *rand.Rand // random source for deterministic shuffling
}

// NewDeck creates a full, unshuffled deck with an explicit RNG.
// A nil rng falls back to the global source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, DeckSize),
		rng:   rng,
	}
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := 1; rank <= 10; rank++ {
			d.cards = append(d.cards, Card{Suit: suit, Rank: rank})
		}
	}
	return d
}

// Shuffle shuffles the remaining cards using Fisher-Yates.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top n cards, or nil if the deck is short.
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		return nil
	}
	dealt := make([]Card, n)
	copy(dealt, d.cards[len(d.cards)-n:])
	d.cards = d.cards[:len(d.cards)-n]
	return dealt
}

// Return puts cards back into the deck between hands.
func (d *Deck) Return(cards []Card) {
	d.cards = append(d.cards, cards...)
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Full reports whether every card is back in the deck.
func (d *Deck) Full() bool {
	return len(d.cards) == DeckSize
}
