package main

import (
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cirulla-game/cirulla/internal/tui"
)

// LocalCmd plays a hotseat game: all players share this terminal.
type LocalCmd struct {
	Players []string `kong:"arg,help='Player names, 2 to 4'"`
	WinAt   int      `kong:"default='51',help='Score to win the game'"`
	Seed    *int64   `kong:"help='Deterministic RNG seed (optional)'"`
	Debug   bool     `kong:"help='Enable debug logging'"`
}

func (c *LocalCmd) Run() error {
	logger := setupLogger("info", c.Debug)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	model, err := tui.NewLocalModel(c.Players, c.WinAt, rng, logger)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
