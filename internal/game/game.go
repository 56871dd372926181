package game

import (
	"math/rand"
)

// Phase is the coarse state of a game instance.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseStarted
	PhaseHandInProgress
)

// String returns the string representation of a phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseStarted:
		return "started"
	case PhaseHandInProgress:
		return "hand in progress"
	default:
		return "unknown"
	}
}

// NextAction tells the caller what to do after a turn resolves.
type NextAction int

const (
	NextPlayer NextAction = iota
	NextRound
	EndHand
)

// String returns the string representation of a next action.
func (a NextAction) String() string {
	switch a {
	case NextPlayer:
		return "next player"
	case NextRound:
		return "next round"
	case EndHand:
		return "end hand"
	default:
		return "unknown"
	}
}

// HandResult is the outcome of a finished hand.
type HandResult struct {
	Scores   []HandScore `json:"scores"`
	GameOver bool        `json:"game_over"`
	Winners  []string    `json:"winners,omitempty"`
}

// MaxPlayers is the seat limit of a single game.
const MaxPlayers = 4

// MinNameLen is the shortest accepted player name.
const MinNameLen = 2

// Game owns the deck, table and seats and enforces the phase contracts.
// It is single-threaded; the server serializes access through its
// executor, local mode calls it from one goroutine.
type Game struct {
	deck    *Deck
	Table   []Card
	Players []*Player
	Current int
	WinAt   int

	phase        Phase
	lastCapturer int
	hasCapturer  bool
}

// New creates an empty game playing to winAt points. The RNG is injected
// so tests can deal deterministic hands; nil uses the global source.
func New(winAt int, rng *rand.Rand) *Game {
	return &Game{
		deck:  NewDeck(rng),
		WinAt: winAt,
	}
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// CurrentPlayer returns the seat whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	return g.Players[g.Current]
}

// DeckRemaining returns the number of undealt cards.
func (g *Game) DeckRemaining() int {
	return g.deck.Remaining()
}

// AddPlayer seats a new player. Only legal before the game starts.
func (g *Game) AddPlayer(name string) error {
	if g.phase != PhaseNotStarted {
		return ErrGameAlreadyStarted
	}
	if len(g.Players) >= MaxPlayers {
		return ErrTooManyPlayers
	}
	if len(name) < MinNameLen {
		return ErrNameTooShort
	}
	for _, p := range g.Players {
		if p.Name == name {
			return ErrNameAlreadyTaken
		}
	}
	g.Players = append(g.Players, NewPlayer(name))
	return nil
}

// RemovePlayer vacates a seat by name. Only legal before the game starts;
// a started game cannot lose a seat and must be torn down instead.
func (g *Game) RemovePlayer(name string) bool {
	if g.phase != PhaseNotStarted {
		return false
	}
	for i, p := range g.Players {
		if p.Name == name {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			return true
		}
	}
	return false
}

// StartGame begins play: it needs at least two seats and resets every
// player's cumulative score.
func (g *Game) StartGame() error {
	if len(g.Players) < 2 {
		return ErrNotEnoughPlayers
	}
	for _, p := range g.Players {
		p.startGame()
	}
	g.phase = PhaseStarted
	return nil
}

// StartHand shuffles the full deck and deals the opening table spread,
// redealing while two or more aces are face-up. A spread summing to
// exactly 15 or 30 is swept by the dealer for sum/15 brooms.
func (g *Game) StartHand() error {
	if g.phase == PhaseNotStarted {
		return ErrGameNotStarted
	}
	if !g.deck.Full() {
		return ErrDeckNotReady
	}

	for _, p := range g.Players {
		p.startHand()
	}

	for {
		g.deck.Shuffle()
		spread := g.deck.Deal(4)

		aces := 0
		for _, c := range spread {
			if c.Rank == 1 {
				aces++
			}
		}
		if aces < 2 {
			g.applySpread(spread)
			break
		}
		g.deck.Return(spread)
	}

	g.phase = PhaseHandInProgress
	return nil
}

// applySpread lays the opening spread on the table. A spread summing to
// exactly 15 or 30 goes straight to the dealer's pile for sum/15 brooms.
func (g *Game) applySpread(spread []Card) {
	g.Table = spread

	sum := 0
	for _, c := range spread {
		sum += c.Rank
	}
	if sum != 15 && sum != 30 {
		return
	}

	dealer := g.Players[0]
	dealer.capture(g.Table...)
	g.Table = nil
	brooms := sum / 15
	dealer.Brooms += brooms
	dealer.Effects = append(dealer.Effects, Effect{Kind: EffectDealerSweep, Brooms: brooms})
	g.lastCapturer = 0
	g.hasCapturer = true
}

// StartRound deals three cards to every seat and hands the turn to the
// dealer. Knock bonuses are applied during the draw.
func (g *Game) StartRound() error {
	if g.phase != PhaseHandInProgress {
		return ErrHandNotStarted
	}
	for _, p := range g.Players {
		p.draw(g.deck)
	}
	g.Current = 0
	return nil
}

// PlayerPlay resolves the current player's card against the table and
// reports whether it captured. An unknown card code fails with
// ErrCardNotFound and mutates nothing.
func (g *Game) PlayerPlay(code string) (bool, error) {
	if g.phase != PhaseHandInProgress {
		return false, ErrHandNotStarted
	}
	player := g.CurrentPlayer()

	// A broom needs cards left to play for; an empty deck means the hand
	// is being played out and trailing sweeps score nothing extra.
	canBroom := g.deck.Remaining() > 0

	played, ok := player.takeCard(code)
	if !ok {
		return false, ErrCardNotFound
	}

	outcome, captured := ResolveCapture(g.Table, played, canBroom)
	g.Table = outcome.Remaining
	if captured {
		player.capture(outcome.Captured...)
		player.capture(played)
		if outcome.Broom {
			player.Brooms++
		}
		g.lastCapturer = g.Current
		g.hasCapturer = true
	}
	return captured, nil
}

// NextRoundAction clears the just-played seat's transient effects and
// advances the turn. EndHand sweeps any residual table cards into the
// last capturer's pile (the dealer when nobody captured all hand).
func (g *Game) NextRoundAction() (NextAction, error) {
	if g.phase != PhaseHandInProgress {
		return 0, ErrHandNotStarted
	}

	g.CurrentPlayer().clearEffects()
	g.Current = (g.Current + 1) % len(g.Players)

	if len(g.CurrentPlayer().Hand) > 0 {
		return NextPlayer, nil
	}
	if g.deck.Remaining() > 0 {
		return NextRound, nil
	}

	g.sweepTable()
	return EndHand, nil
}

// EndHandScores scores the finished hand, accumulates points, returns all
// piles to the deck and rotates the dealer seat. The result reports
// whether anyone reached the win threshold.
func (g *Game) EndHandScores() (*HandResult, error) {
	if g.phase != PhaseHandInProgress {
		return nil, ErrHandNotStarted
	}

	g.sweepTable()

	scores := scoreHand(g.Players)
	result := &HandResult{Scores: scores}
	for i, p := range g.Players {
		p.Points += scores[i].Total
		result.Scores[i].Points = p.Points
		if p.Points >= g.WinAt {
			result.GameOver = true
			result.Winners = append(result.Winners, p.Name)
		}

		g.deck.Return(p.Captured)
		p.Captured = nil
		p.HandVisible = false
		p.clearEffects()
	}

	// next hand has a new dealer
	g.Players = append(g.Players[1:], g.Players[0])

	g.hasCapturer = false
	g.phase = PhaseStarted
	return result, nil
}

// sweepTable gives leftover table cards to the last capturer.
func (g *Game) sweepTable() {
	if len(g.Table) == 0 {
		return
	}
	capturer := 0 // dealer fallback when no capture happened all hand
	if g.hasCapturer {
		capturer = g.lastCapturer
	}
	g.Players[capturer].capture(g.Table...)
	g.Table = nil
}
