package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/cirulla-game/cirulla/internal/protocol"
	"github.com/cirulla-game/cirulla/internal/tui"
)

// responseMsg wraps a server response for the update loop.
type responseMsg struct {
	response protocol.Response
}

// disconnectedMsg signals that the server hung up.
type disconnectedMsg struct{}

// Model is the Bubble Tea frontend for network play: an event log, the
// current board and a command prompt. Raw protocol commands are typed as-is;
// the model sends HELLO itself on startup.
type Model struct {
	client *Client
	name   string
	logger *log.Logger

	logViewport viewport.Model
	input       textinput.Model

	eventLog []string
	status   *protocol.GameStatus
	myTurn   bool
	quitting bool

	width       int
	height      int
	initialized bool
}

// NewModel creates the frontend for a connected client. name is announced
// with HELLO as soon as the model starts.
func NewModel(client *Client, name string, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "command, e.g. TABLE LIST or PLAY 7d"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 60
	ti.Prompt = "> "

	return &Model{
		client:      client,
		name:        name,
		logger:      logger.WithPrefix("ui"),
		logViewport: vp,
		input:       ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.hello(), m.listen())
}

func (m *Model) hello() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Send(protocol.Hello{Name: m.name}); err != nil {
			return disconnectedMsg{}
		}
		return nil
	}
}

// listen waits for the next server response.
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		r, ok := <-m.client.Responses()
		if !ok {
			return disconnectedMsg{}
		}
		return responseMsg{response: r}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case disconnectedMsg:
		m.appendLog(tui.ErrorStyle.Render("server closed the connection"))
		m.quitting = true
		return m, tea.Quit

	case responseMsg:
		m.handleResponse(msg.response)
		return m, m.listen()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			_ = m.client.Send(protocol.Quit{})
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			m.submit()
			return m, nil
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit parses the typed line as a protocol command and sends it.
func (m *Model) submit() {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if line == "" {
		return
	}

	cmd, err := protocol.ParseCommand(line)
	if err != nil {
		m.appendLog(tui.ErrorStyle.Render(err.Error()))
		return
	}
	if err := m.client.Send(cmd); err != nil {
		m.appendLog(tui.ErrorStyle.Render("send failed: " + err.Error()))
		return
	}
	if _, ok := cmd.(protocol.Play); ok {
		m.myTurn = false
	}
}

func (m *Model) handleResponse(r protocol.Response) {
	switch r := r.(type) {
	case protocol.Hi:
		m.appendLog(tui.SuccessStyle.Render("welcome, " + r.Name))
	case protocol.ScreamFrom:
		m.appendLog(fmt.Sprintf("%s: %s", tui.PlayerStyle.Render(r.Name), r.Text))
	case protocol.ErrorResponse:
		m.appendLog(tui.ErrorStyle.Render(r.Message))
	case protocol.TableCreated:
		m.appendLog("table created: " + r.Info.String())
	case protocol.TableJoined:
		m.appendLog(fmt.Sprintf("joined table %d", r.ID))
	case protocol.TableLeft:
		m.appendLog(fmt.Sprintf("left table %d", r.ID))
	case protocol.TableRemoved:
		m.appendLog(fmt.Sprintf("table %d removed", r.ID))
		m.status = nil
		m.myTurn = false
	case protocol.TableListResponse:
		if len(r.Tables) == 0 {
			m.appendLog("no tables")
		}
		for _, info := range r.Tables {
			m.appendLog("table " + info.String())
		}
	case protocol.GameStart:
		m.appendLog(tui.SuccessStyle.Render(fmt.Sprintf("game started at table %d", r.TableID)))
	case protocol.GameStatusResponse:
		status := r.Status
		m.status = &status
	case protocol.PlayPrompt:
		m.myTurn = true
	case protocol.Wait:
		m.myTurn = false
	case protocol.HandResultResponse:
		for _, line := range strings.Split(tui.RenderHandResult(r.Result), "\n") {
			m.appendLog(line)
		}
	case protocol.GameEnd:
		m.appendLog(tui.SuccessStyle.Render("game over"))
		m.status = nil
		m.myTurn = false
	case protocol.StatusResponse:
		if r.Status.TableName != "" {
			m.appendLog(fmt.Sprintf("you are %s at table %d (%s)", r.Status.Name, r.Status.TableID, r.Status.TableName))
		} else {
			m.appendLog("you are " + r.Status.Name)
		}
	}
}

func (m *Model) appendLog(line string) {
	m.eventLog = append(m.eventLog, line)
	m.logViewport.SetContent(strings.Join(m.eventLog, "\n"))
	m.logViewport.GotoBottom()
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var board string
	if m.status != nil {
		board = tui.RenderStatus(*m.status)
		if m.myTurn {
			board += "\n" + tui.WarningStyle.Render("your turn")
		}
	} else {
		board = tui.InfoStyle.Render("not at a table")
	}

	boardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.width-2).
		Padding(0, 1)
	boardPane := boardStyle.Render(board)

	inputPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(m.width - 2).
		Render(m.input.View())

	logHeight := m.height - lipgloss.Height(boardPane) - lipgloss.Height(inputPane) - 2
	if logHeight < 1 {
		logHeight = 1
	}
	m.logViewport.Width = m.width - 4
	m.logViewport.Height = logHeight
	if !m.initialized {
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.width - 2).
		Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Top, boardPane, logPane, inputPane)
}
