package tui

import (
	"math/rand"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/cirulla-game/cirulla/internal/game"
	"github.com/cirulla-game/cirulla/internal/protocol"
)

type localPhase int

const (
	phasePlaying localPhase = iota
	phaseHandResult
	phaseGameOver
)

// LocalModel is the hotseat mode: every player shares one terminal and the
// game engine is driven directly, no server involved. Only the player on
// turn has their hand on screen.
type LocalModel struct {
	game   *game.Game
	logger *log.Logger

	input  textinput.Model
	phase  localPhase
	result *game.HandResult
	errMsg string

	quitting bool
}

// NewLocalModel builds a ready-to-run hotseat game.
func NewLocalModel(names []string, winAt int, rng *rand.Rand, logger *log.Logger) (*LocalModel, error) {
	g := game.New(winAt, rng)
	for _, name := range names {
		if err := g.AddPlayer(name); err != nil {
			return nil, err
		}
	}
	if err := g.StartGame(); err != nil {
		return nil, err
	}
	if err := g.StartHand(); err != nil {
		return nil, err
	}
	if err := g.StartRound(); err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.Placeholder = "card to play, e.g. 7d"
	ti.Focus()
	ti.CharLimit = 3
	ti.Width = 30
	ti.Prompt = "> "

	return &LocalModel{
		game:   g,
		logger: logger.WithPrefix("local"),
		input:  ti,
	}, nil
}

func (m *LocalModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *LocalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			return m.handleEnter()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *LocalModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.phase {
	case phasePlaying:
		code := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		if code == "" {
			return m, nil
		}
		m.playCard(code)
	case phaseHandResult:
		m.nextHand()
	case phaseGameOver:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)
	}
	return m, nil
}

func (m *LocalModel) playCard(code string) {
	if _, err := m.game.PlayerPlay(code); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""

	action, err := m.game.NextRoundAction()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	switch action {
	case game.NextPlayer:
	case game.NextRound:
		if err := m.game.StartRound(); err != nil {
			m.errMsg = err.Error()
		}
	case game.EndHand:
		result, err := m.game.EndHandScores()
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		m.result = result
		if result.GameOver {
			m.phase = phaseGameOver
		} else {
			m.phase = phaseHandResult
		}
	}
}

func (m *LocalModel) nextHand() {
	if err := m.game.StartHand(); err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := m.game.StartRound(); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.result = nil
	m.phase = phasePlaying
}

func (m *LocalModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" Cirulla "))
	b.WriteString("\n\n")

	switch m.phase {
	case phasePlaying:
		b.WriteString(RenderStatus(m.snapshot()))
		b.WriteString("\n\n")
		current := m.game.CurrentPlayer()
		b.WriteString(PlayerStyle.Render(current.Name) + ", play a card\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.errMsg != "" {
			b.WriteString(ErrorStyle.Render(m.errMsg))
			b.WriteString("\n")
		}
	case phaseHandResult, phaseGameOver:
		if m.result != nil {
			b.WriteString(RenderHandResult(*m.result))
		}
		b.WriteString("\n")
		if m.phase == phaseHandResult {
			b.WriteString(InfoStyle.Render("press enter for the next hand"))
		} else {
			b.WriteString(InfoStyle.Render("press enter to leave"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// snapshot builds the board view: the player on turn sees their own hand,
// everyone else is face down unless a knock made them visible.
func (m *LocalModel) snapshot() protocol.GameStatus {
	s := protocol.GameStatus{
		Table:   m.game.Table,
		Deck:    m.game.DeckRemaining(),
		WinAt:   m.game.WinAt,
		Players: make([]protocol.PlayerStatus, 0, len(m.game.Players)),
	}
	for i, p := range m.game.Players {
		ps := protocol.PlayerStatus{
			Name:     p.Name,
			Points:   p.Points,
			Brooms:   p.Brooms,
			Current:  i == m.game.Current,
			Visible:  p.HandVisible,
			HandSize: len(p.Hand),
			Captured: len(p.Captured),
		}
		if ps.Current || p.HandVisible {
			ps.Hand = p.Hand
		}
		s.Players = append(s.Players, ps)
	}
	return s
}
