package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cirulla-game/cirulla/internal/client"
)

// ClientCmd connects to a server and plays interactively.
type ClientCmd struct {
	Addr  string `kong:"default='localhost:4000',help='Server address'"`
	Name  string `kong:"arg,help='Player name'"`
	Debug bool   `kong:"help='Enable debug logging'"`
}

func (c *ClientCmd) Run() error {
	logger := setupLogger("info", c.Debug)

	cl := client.NewClient(c.Addr, logger)
	if err := cl.Connect(); err != nil {
		return err
	}
	defer func() { _ = cl.Disconnect() }()

	model := client.NewModel(cl, c.Name, logger)
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
