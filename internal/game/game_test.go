package game

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cardCount sums every card in flight: deck, hands, table, capture piles.
func cardCount(g *Game) int {
	n := g.deck.Remaining() + len(g.Table)
	for _, p := range g.Players {
		n += len(p.Hand) + len(p.Captured)
	}
	return n
}

func newTestGame(t *testing.T, seed int64, names ...string) *Game {
	t.Helper()
	g := New(51, rand.New(rand.NewSource(seed)))
	for _, name := range names {
		require.NoError(t, g.AddPlayer(name))
	}
	return g
}

func TestAddPlayerValidation(t *testing.T) {
	g := New(51, nil)

	assert.ErrorIs(t, g.AddPlayer("x"), ErrNameTooShort)
	require.NoError(t, g.AddPlayer("alice"))
	assert.ErrorIs(t, g.AddPlayer("alice"), ErrNameAlreadyTaken)

	for _, name := range []string{"bob", "carol", "dave"} {
		require.NoError(t, g.AddPlayer(name))
	}
	assert.ErrorIs(t, g.AddPlayer("eve"), ErrTooManyPlayers)
}

func TestAddPlayerAfterStart(t *testing.T) {
	g := newTestGame(t, 1, "alice", "bob")
	require.NoError(t, g.StartGame())
	assert.ErrorIs(t, g.AddPlayer("carol"), ErrGameAlreadyStarted)
}

func TestStartGameNeedsTwoPlayers(t *testing.T) {
	g := New(51, nil)
	require.NoError(t, g.AddPlayer("alice"))
	assert.ErrorIs(t, g.StartGame(), ErrNotEnoughPlayers)
}

func TestStartHandRequiresStartedGame(t *testing.T) {
	g := newTestGame(t, 1, "alice", "bob")
	assert.ErrorIs(t, g.StartHand(), ErrGameNotStarted)
}

func TestStartHandNeverLeavesTwoAces(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		g := newTestGame(t, seed, "alice", "bob")
		require.NoError(t, g.StartGame())
		require.NoError(t, g.StartHand())

		aces := 0
		for _, c := range g.Table {
			if c.Rank == 1 {
				aces++
			}
		}
		assert.LessOrEqual(t, aces, 1, "seed %d", seed)
		assert.Equal(t, DeckSize, cardCount(g), "seed %d", seed)
	}
}

func TestApplySpreadDealerSweep(t *testing.T) {
	tests := []struct {
		name   string
		spread []Card
		brooms int
	}{
		{"sum 15", hearts(2, 3, 4, 6), 1},
		{"sum 30", []Card{
			{Suit: Hearts, Rank: 10}, {Suit: Diamonds, Rank: 10},
			{Suit: Clubs, Rank: 7}, {Suit: Spades, Rank: 3},
		}, 2},
		{"no bonus", hearts(2, 3, 4, 7), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 1, "dealer", "other")
			g.applySpread(tt.spread)

			dealer := g.Players[0]
			if tt.brooms == 0 {
				assert.Equal(t, tt.spread, g.Table)
				assert.Empty(t, dealer.Captured)
				return
			}
			assert.Empty(t, g.Table)
			assert.Len(t, dealer.Captured, 4)
			assert.Equal(t, tt.brooms, dealer.Brooms)
			require.Len(t, dealer.Effects, 1)
			assert.Equal(t, EffectDealerSweep, dealer.Effects[0].Kind)
			assert.Equal(t, tt.brooms, dealer.Effects[0].Brooms)
		})
	}
}

func TestKnockBonuses(t *testing.T) {
	tests := []struct {
		name    string
		cards   []Card
		brooms  int
		visible bool
	}{
		{"equal ranks", []Card{
			{Suit: Hearts, Rank: 5}, {Suit: Diamonds, Rank: 5}, {Suit: Clubs, Rank: 5},
		}, 10, true},
		{"low sum", hearts(2, 3, 4), 3, true},
		{"equal ranks and low sum", []Card{
			{Suit: Hearts, Rank: 3}, {Suit: Diamonds, Rank: 3}, {Suit: Clubs, Rank: 3},
		}, 13, true},
		{"plain hand", hearts(4, 5, 6), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer("test")
			deck := &Deck{cards: tt.cards}
			p.draw(deck)

			assert.Equal(t, tt.brooms, p.Brooms)
			assert.Equal(t, tt.visible, p.HandVisible)
			assert.Len(t, p.Hand, 3)
		})
	}
}

func TestPlayerPlayUnknownCard(t *testing.T) {
	g := newTestGame(t, 7, "alice", "bob")
	require.NoError(t, g.StartGame())
	require.NoError(t, g.StartHand())
	require.NoError(t, g.StartRound())

	before := len(g.CurrentPlayer().Hand)
	tableBefore := len(g.Table)

	_, err := g.PlayerPlay("zz")
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Len(t, g.CurrentPlayer().Hand, before)
	assert.Len(t, g.Table, tableBefore)
}

func TestPlayerPlayIsCaseInsensitive(t *testing.T) {
	g := newTestGame(t, 7, "alice", "bob")
	require.NoError(t, g.StartGame())
	require.NoError(t, g.StartHand())
	require.NoError(t, g.StartRound())

	code := g.CurrentPlayer().Hand[0].String()
	_, err := g.PlayerPlay(strings.ToUpper(code))
	assert.NoError(t, err)
}

func TestFullHandConservesCards(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			runFullHand(t, seed)
		})
	}
}

func runFullHand(t *testing.T, seed int64) {
	t.Helper()
	g := newTestGame(t, seed, "alice", "bob")
	require.NoError(t, g.StartGame())
	require.NoError(t, g.StartHand())

	for {
		require.NoError(t, g.StartRound())
		roundOver := false
		for !roundOver {
			_, err := g.PlayerPlay(g.CurrentPlayer().Hand[0].String())
			require.NoError(t, err)
			assert.Equal(t, DeckSize, cardCount(g))

			action, err := g.NextRoundAction()
			require.NoError(t, err)
			switch action {
			case NextPlayer:
			case NextRound:
				roundOver = true
			case EndHand:
				// the table is swept into the last capturer's pile
				assert.Empty(t, g.Table)
				assert.Equal(t, DeckSize, cardCount(g))

				result, err := g.EndHandScores()
				require.NoError(t, err)
				require.Len(t, result.Scores, 2)
				assert.True(t, g.deck.Full())
				assert.Equal(t, PhaseStarted, g.Phase())
				return
			}
		}
	}
}

func TestEndHandRotatesDealer(t *testing.T) {
	g := newTestGame(t, 3, "alice", "bob", "carol")
	require.NoError(t, g.StartGame())
	require.NoError(t, g.StartHand())
	playOutHand(t, g)

	_, err := g.EndHandScores()
	require.NoError(t, err)

	names := []string{g.Players[0].Name, g.Players[1].Name, g.Players[2].Name}
	assert.Equal(t, []string{"bob", "carol", "alice"}, names)
}

func TestEndHandWithoutCaptureFallsBackToDealer(t *testing.T) {
	g := newTestGame(t, 1, "alice", "bob")
	g.phase = PhaseHandInProgress
	g.deck.cards = nil
	g.Table = hearts(9, 8)
	g.Current = 1

	action, err := g.NextRoundAction()
	require.NoError(t, err)
	require.Equal(t, EndHand, action)

	assert.Empty(t, g.Table)
	assert.Equal(t, hearts(9, 8), g.Players[0].Captured)
}

func TestGameOverAtThreshold(t *testing.T) {
	g := newTestGame(t, 5, "alice", "bob")
	g.WinAt = 1
	require.NoError(t, g.StartGame())

	// play hands until someone scores a point; with win_at of one the
	// first scoring hand ends the game
	for hand := 0; hand < 20; hand++ {
		require.NoError(t, g.StartHand())
		playOutHand(t, g)
		result, err := g.EndHandScores()
		require.NoError(t, err)
		if result.GameOver {
			assert.NotEmpty(t, result.Winners)
			return
		}
	}
	t.Fatal("no hand produced a point in 20 hands")
}

// playOutHand drives a started hand to its end, each player dumping the
// first card in their hand.
func playOutHand(t *testing.T, g *Game) {
	t.Helper()
	for {
		require.NoError(t, g.StartRound())
		for {
			_, err := g.PlayerPlay(g.CurrentPlayer().Hand[0].String())
			require.NoError(t, err)
			action, err := g.NextRoundAction()
			require.NoError(t, err)
			if action == EndHand {
				return
			}
			if action == NextRound {
				break
			}
		}
	}
}
