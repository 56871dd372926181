package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit represents one of the four card suits.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// String returns the single-letter suit code used in card codes.
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Card is an immutable (suit, rank) value. Rank runs 1-10; face cards are
// 8 (J), 9 (Q) and 10 (K).
type Card struct {
	Suit Suit
	Rank int
}

// Name returns the rank token: A, 2-7, J, Q, K.
func (c Card) Name() string {
	switch c.Rank {
	case 1:
		return "A"
	case 8:
		return "J"
	case 9:
		return "Q"
	case 10:
		return "K"
	default:
		return strconv.Itoa(c.Rank)
	}
}

// PrimieraValue returns the card's worth in the primiera scoring category.
func (c Card) PrimieraValue() int {
	switch c.Rank {
	case 1:
		return 13
	case 8, 9, 10:
		return 1
	default:
		return c.Rank * 2
	}
}

// String returns the wire code for the card, e.g. "Ah", "7d", "Ks".
func (c Card) String() string {
	return c.Name() + c.Suit.String()
}

// MarshalJSON encodes the card as its code string.
func (c Card) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes a card from its code string.
func (c *Card) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseCard(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a two-character card code, case-insensitively.
// The inverse of String.
func ParseCard(code string) (Card, error) {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}

	rankToken := strings.ToUpper(code[:len(code)-1])
	suitToken := strings.ToLower(code[len(code)-1:])

	var rank int
	switch rankToken {
	case "A":
		rank = 1
	case "J":
		rank = 8
	case "Q":
		rank = 9
	case "K":
		rank = 10
	default:
		n, err := strconv.Atoi(rankToken)
		if err != nil || n < 2 || n > 7 {
			return Card{}, fmt.Errorf("invalid card rank %q", rankToken)
		}
		rank = n
	}

	var suit Suit
	switch suitToken {
	case "h":
		suit = Hearts
	case "d":
		suit = Diamonds
	case "c":
		suit = Clubs
	case "s":
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid card suit %q", suitToken)
	}

	return Card{Suit: suit, Rank: rank}, nil
}
