package server

import (
	"math/rand"

	"github.com/cirulla-game/cirulla/internal/game"
	"github.com/cirulla-game/cirulla/internal/protocol"
)

// Table is a room: one game plus the roster mapping sessions to seats.
// Like everything else behind the executor it is single-threaded.
type Table struct {
	id         int
	name       string
	maxPlayers int
	winAt      int

	game  *game.Game
	seats map[string]string // session id -> player name, bijective

	// permanent tables are provisioned from configuration and survive
	// emptying out; player-created tables are removed instead.
	permanent bool
}

func newTable(id int, name string, maxPlayers, winAt int, rng *rand.Rand) *Table {
	return &Table{
		id:         id,
		name:       name,
		maxPlayers: maxPlayers,
		winAt:      winAt,
		game:       game.New(winAt, rng),
		seats:      make(map[string]string, maxPlayers),
	}
}

func (t *Table) info() protocol.TableInfo {
	return protocol.TableInfo{
		ID:         t.id,
		Name:       t.name,
		Players:    len(t.seats),
		MaxPlayers: t.maxPlayers,
		WinAt:      t.winAt,
	}
}

// seat adds a session's player to the game and the roster.
func (t *Table) seat(sessionID, playerName string) error {
	if len(t.seats) >= t.maxPlayers {
		return game.ErrTooManyPlayers
	}
	if err := t.game.AddPlayer(playerName); err != nil {
		return err
	}
	t.seats[sessionID] = playerName
	return nil
}

// vacate removes a session from the roster and, before the game starts,
// its player from the game. Reports whether the session was seated.
func (t *Table) vacate(sessionID string) bool {
	name, ok := t.seats[sessionID]
	if !ok {
		return false
	}
	delete(t.seats, sessionID)
	t.game.RemovePlayer(name)
	return true
}

// full reports whether every seat is taken.
func (t *Table) full() bool {
	return len(t.seats) == t.maxPlayers
}

// sessionIDs returns the ids of every seated session.
func (t *Table) sessionIDs() []string {
	ids := make([]string, 0, len(t.seats))
	for id := range t.seats {
		ids = append(ids, id)
	}
	return ids
}

// currentSessionID returns the session whose turn it is.
func (t *Table) currentSessionID() string {
	current := t.game.CurrentPlayer().Name
	for sid, name := range t.seats {
		if name == current {
			return sid
		}
	}
	return ""
}

// statusFor builds the snapshot for one viewer: their own hand in full,
// opponents redacted to a hand size unless a knock revealed them.
func (t *Table) statusFor(sessionID string) protocol.GameStatus {
	viewer := t.seats[sessionID]

	status := protocol.GameStatus{
		TableID: t.id,
		Table:   t.game.Table,
		Deck:    t.game.DeckRemaining(),
		WinAt:   t.winAt,
		Players: make([]protocol.PlayerStatus, 0, len(t.game.Players)),
	}
	for i, p := range t.game.Players {
		ps := protocol.PlayerStatus{
			Name:     p.Name,
			Points:   p.Points,
			Brooms:   p.Brooms,
			You:      p.Name == viewer,
			Current:  i == t.game.Current,
			Visible:  p.HandVisible,
			HandSize: len(p.Hand),
			Captured: len(p.Captured),
		}
		if ps.You || p.HandVisible {
			ps.Hand = p.Hand
		}
		status.Players = append(status.Players, ps)
	}
	return status
}
