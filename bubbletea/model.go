package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/sophia"
)

var _ tea.Model = Model{}

const (
	statusHeight = 1
	inputHeight  = 1
	// gapHeight is the blank line between the history and the status line.
	gapHeight = 1
)

const (
	helpText        = "Enter send · Ctrl+N new · Tab switch · Ctrl+X logout · Ctrl+C quit"
	noSelectionText = "No conversation selected. Press Ctrl+N to start one."
	emptyLogText    = "Say hi to Sophia."
)

// Model is the Bubble Tea model for the sophia TUI. It renders the state of
// a sophia.Controller and feeds user actions and finished network calls
// back into it.
type Model struct {
	// Login is the username field shown while logged out. Exported for test access.
	Login textinput.Model
	// Input is the chat input. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable history. Exported for test access.
	Viewport viewport.Model
	// Spinner animates while a call is outstanding.
	Spinner spinner.Model

	ctx    context.Context
	ctrl   *sophia.Controller
	theme  sophia.Theme
	styles Styles

	// blocks mirrors ctrl.Messages() for the conversation in shownID.
	blocks  []MessageBlock
	shownID string

	notice string // transient success note for the status line
	err    error
	width  int
	height int
	ready  bool
}

// New creates a TUI Model driving ctrl. Network calls run with ctx.
func New(ctx context.Context, ctrl *sophia.Controller, theme sophia.Theme) Model {
	login := textinput.New()
	login.Placeholder = "username"
	login.Prompt = "> "
	login.CharLimit = 64
	login.Focus()

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.CharLimit = 0

	styles := NewStyles(theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Accent))

	return Model{
		Login:   login,
		Input:   input,
		Spinner: sp,
		ctx:     ctx,
		ctrl:    ctrl,
		theme:   theme,
		styles:  styles,
	}
}

// Err returns the last error shown on the status line, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		if m.ctrl.State() == sophia.StateLoggedIn {
			return m.handleChatKey(msg)
		}
		return m.handleLoginKey(msg)

	case LoginResultMsg:
		if err := m.ctrl.CompleteLogin(msg.Result); err != nil {
			m.err = err
			cmd := m.Login.Focus()
			return m, cmd
		}
		if m.ctrl.State() != sophia.StateLoggedIn {
			return m, nil
		}
		m.err = nil
		m.notice = "Logged in as " + m.ctrl.Session().Username
		m.Login.Reset()
		m.Login.Blur()
		m = m.sync()
		cmd := m.Input.Focus()
		return m, cmd

	case ChatResultMsg:
		if err := m.ctrl.CompleteChat(msg.Result); err != nil {
			m.err = err
		}
		return m.sync(), nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.ctrl.State() == sophia.StateLoggedIn {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.Login, cmd = m.Login.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.ctrl.State() != sophia.StateLoggedIn {
		return m.loginView()
	}

	selected := ""
	if conv, ok := m.ctrl.Selected(); ok {
		selected = conv.ID
	}
	sidebar := renderSidebar(m.ctrl.Session().Username, m.ctrl.Conversations(), selected, m.height, m.styles)

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, b.String())
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Sophia"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Log in to start chatting"))
	b.WriteString("\n\n")
	b.WriteString(m.Login.View())
	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	mainWidth := max(msg.Width-sidebarWidth, 1)
	vpHeight := max(msg.Height-statusHeight-inputHeight-gapHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(mainWidth, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = mainWidth
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = max(mainWidth-lipgloss.Width(m.Input.Prompt)-1, 1)
	m.Login.Width = 32

	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		call, ok := m.ctrl.BeginLogin(m.Login.Value())
		if !ok {
			return m, nil
		}
		m.err = nil
		m.notice = ""
		m.Login.Blur()
		return m, tea.Batch(doLogin(m.ctx, call), m.Spinner.Tick)
	}

	if m.ctrl.State() == sophia.StateAuthenticating {
		return m, nil
	}
	var cmd tea.Cmd
	m.Login, cmd = m.Login.Update(msg)
	return m, cmd
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyCtrlX:
		m.ctrl.Logout()
		m.err = nil
		m.notice = ""
		m.Input.Reset()
		m.Input.Blur()
		m = m.sync()
		cmd := m.Login.Focus()
		return m, cmd

	case tea.KeyCtrlN:
		if _, err := m.ctrl.CreateConversation(); err != nil {
			m.err = err
		}
		return m.sync(), nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyEnter:
		return m.submit()
	}

	// Character keys go to the input only; 'j'/'k' are both text and
	// viewport scroll keys.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	wasBusy := m.busy()
	call, ok := m.ctrl.Submit(m.Input.Value())
	if !ok {
		return m, nil
	}
	m.Input.Reset()
	m.err = nil
	m.notice = ""
	m = m.sync()
	cmds := []tea.Cmd{doChat(m.ctx, call)}
	if !wasBusy {
		cmds = append(cmds, m.Spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// cycle selects the conversation delta positions away from the current one,
// wrapping around.
func (m Model) cycle(delta int) Model {
	convs := m.ctrl.Conversations()
	if len(convs) == 0 {
		return m
	}
	cur := 0
	if sel, ok := m.ctrl.Selected(); ok {
		for i, c := range convs {
			if c.ID == sel.ID {
				cur = i
				break
			}
		}
	}
	next := ((cur+delta)%len(convs) + len(convs)) % len(convs)
	if err := m.ctrl.SelectConversation(convs[next].ID); err != nil {
		m.err = err
	}
	return m.sync()
}

// sync brings the blocks in line with the controller's active log and
// refreshes the viewport. Blocks are rebuilt only when the conversation
// changed; otherwise new messages are appended and cached renderings kept.
func (m Model) sync() Model {
	msgs := m.ctrl.Messages()
	id := ""
	if conv, ok := m.ctrl.Selected(); ok {
		id = conv.ID
	}
	if id != m.shownID || len(msgs) < len(m.blocks) {
		m.blocks = nil
		m.shownID = id
	}
	for _, msg := range msgs[len(m.blocks):] {
		m.blocks = append(m.blocks, newBlock(msg, m.theme, m.styles))
	}
	if m.ready {
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) renderContent() string {
	if _, ok := m.ctrl.Selected(); !ok {
		return m.styles.Muted.Render(noSelectionText)
	}
	if len(m.blocks) == 0 {
		return m.styles.Muted.Render(emptyLogText)
	}
	width := max(m.Viewport.Width-1, 1)
	views := make([]string, len(m.blocks))
	for i, block := range m.blocks {
		views[i] = block.View(width)
	}
	return strings.Join(views, "\n\n")
}

func (m Model) busy() bool {
	return m.ctrl.State() == sophia.StateAuthenticating || m.ctrl.Awaiting() > 0
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	case m.ctrl.State() == sophia.StateAuthenticating:
		return m.Spinner.View() + m.styles.Muted.Render(" Logging in...")
	case m.ctrl.State() == sophia.StateLoggedOut:
		return m.styles.Muted.Render("Enter to log in, Ctrl+C to quit")
	case m.ctrl.Awaiting() > 0:
		return m.Spinner.View() + m.styles.Muted.Render(" Sophia is typing...")
	case m.notice != "":
		return m.styles.Success.Render(m.notice)
	default:
		return m.styles.Muted.Render(helpText)
	}
}
