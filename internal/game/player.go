package game

import (
	"strings"
)

// EffectKind tags a transient per-turn annotation on a player.
type EffectKind uint8

const (
	// EffectKnock marks a revealed starting hand (equal ranks or low sum).
	EffectKnock EffectKind = iota
	// EffectDealerSweep marks the dealer's bonus capture of the opening spread.
	EffectDealerSweep
)

// Effect records a bonus applied to a player, cleared after their turn.
type Effect struct {
	Kind   EffectKind
	Brooms int
}

// Player is one seat's mutable state. It is owned by the Game and never
// shared across goroutines.
type Player struct {
	Name        string
	Hand        []Card
	Captured    []Card
	Brooms      int
	Points      int
	HandVisible bool
	Effects     []Effect
}

// NewPlayer creates a seat for the given display name.
func NewPlayer(name string) *Player {
	return &Player{Name: name}
}

func (p *Player) startGame() {
	p.Points = 0
}

func (p *Player) startHand() {
	p.Brooms = 0
}

// draw takes three cards from the deck and applies the knock bonuses:
// three equal ranks is worth 10 brooms, a rank sum of 9 or less is worth
// 3, and either reveals the hand. The two can stack.
func (p *Player) draw(deck *Deck) {
	p.HandVisible = false
	p.Hand = append(p.Hand, deck.Deal(3)...)

	sum := 0
	allEqual := true
	for _, c := range p.Hand {
		sum += c.Rank
		if c.Rank != p.Hand[0].Rank {
			allEqual = false
		}
	}
	if allEqual {
		p.knock(10)
	}
	if sum <= 9 {
		p.knock(3)
	}
}

func (p *Player) knock(brooms int) {
	p.Effects = append(p.Effects, Effect{Kind: EffectKnock, Brooms: brooms})
	p.Brooms += brooms
	p.HandVisible = true
}

// capture moves cards into the player's capture pile.
func (p *Player) capture(cards ...Card) {
	p.Captured = append(p.Captured, cards...)
}

// takeCard removes and returns the named card from the hand, matching the
// code case-insensitively.
func (p *Player) takeCard(code string) (Card, bool) {
	for i, c := range p.Hand {
		if strings.EqualFold(c.String(), strings.TrimSpace(code)) {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// clearEffects drops transient annotations once the owning turn resolves.
func (p *Player) clearEffects() {
	p.Effects = p.Effects[:0]
}
