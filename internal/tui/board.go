package tui

import (
	"fmt"
	"strings"

	"github.com/cirulla-game/cirulla/internal/game"
	"github.com/cirulla-game/cirulla/internal/protocol"
)

var suitSymbols = map[game.Suit]string{
	game.Hearts:   "♥",
	game.Diamonds: "♦",
	game.Clubs:    "♣",
	game.Spades:   "♠",
}

// RenderCard draws one card with its suit symbol, red or black.
func RenderCard(c game.Card) string {
	text := c.Name() + suitSymbols[c.Suit]
	if c.Suit == game.Hearts || c.Suit == game.Diamonds {
		return RedCardStyle.Render(text)
	}
	return BlackCardStyle.Render(text)
}

// RenderCards draws a row of cards, or a dash when there are none.
func RenderCards(cards []game.Card) string {
	if len(cards) == 0 {
		return InfoStyle.Render("-")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = RenderCard(c)
	}
	return strings.Join(parts, " ")
}

// RenderHiddenCards draws n face-down cards.
func RenderHiddenCards(n int) string {
	if n == 0 {
		return InfoStyle.Render("-")
	}
	return InfoStyle.Render(strings.TrimSpace(strings.Repeat("## ", n)))
}

// RenderStatus draws a full game snapshot: deck, table and one line per
// player. Opponents show face-down cards unless their hand is visible.
func RenderStatus(s protocol.GameStatus) string {
	var b strings.Builder

	b.WriteString(InfoStyle.Render(fmt.Sprintf("Deck: %d cards", s.Deck)))
	b.WriteString("\n")
	b.WriteString("Table: ")
	b.WriteString(RenderCards(s.Table))
	b.WriteString("\n\n")

	for _, p := range s.Players {
		marker := "  "
		if p.Current {
			marker = WarningStyle.Render("> ")
		}
		name := p.Name
		if p.You {
			name += " (you)"
		}
		b.WriteString(marker)
		b.WriteString(PlayerStyle.Render(name))
		b.WriteString(fmt.Sprintf("  %d pts, %d brooms  ", p.Points, p.Brooms))
		if p.Hand != nil {
			b.WriteString(RenderCards(p.Hand))
		} else {
			b.WriteString(RenderHiddenCards(p.HandSize))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Playing to %d", s.WinAt)))
	return b.String()
}

// RenderHandResult draws the scoring breakdown of a finished hand.
func RenderHandResult(r game.HandResult) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" Hand result "))
	b.WriteString("\n\n")

	for _, score := range r.Scores {
		b.WriteString(PlayerStyle.Render(score.Name))
		b.WriteString("\n")

		var lines []string
		if score.Brooms > 0 {
			lines = append(lines, fmt.Sprintf("brooms: %d", score.Brooms))
		}
		if score.MostCards {
			lines = append(lines, fmt.Sprintf("most cards (%d): 1", score.Cards))
		}
		if score.MostDiamonds {
			lines = append(lines, fmt.Sprintf("most diamonds (%d): 1", score.Diamonds))
		}
		if score.BestPrimiera {
			lines = append(lines, fmt.Sprintf("best primiera (%d): 1", score.Primiera))
		}
		if score.PrettySeven {
			lines = append(lines, "seven of diamonds: 1")
		}
		if score.HighLadder {
			lines = append(lines, "high ladder: 5")
		}
		if score.LowLadder > 0 {
			lines = append(lines, fmt.Sprintf("low ladder: %d", score.LowLadder))
		}
		for _, line := range lines {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString(fmt.Sprintf("  hand total: %d, score: %d\n", score.Total, score.Points))
	}

	if r.GameOver {
		b.WriteString("\n")
		b.WriteString(SuccessStyle.Render("Game over! Winner: " + strings.Join(r.Winners, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}
