package main

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/gonzago/gonzago/internal/session"
	"github.com/rs/zerolog"
)

const probeTimeout = 5 * time.Second

// model is the presentation layer. All conversation state lives in the
// session; the model only forwards key events and renders what the session
// exposes.
type model struct {
	cfg     appConfig
	ctx     context.Context
	session *session.Session
	asker   session.Asker
	pinger  pinger
	logger  zerolog.Logger

	statusLine  string
	statusError bool
	quitConfirm bool

	width  int
	height int

	input    textinput.Model
	timeline viewport.Model
	spinner  spinner.Model

	markdown      *glamour.TermRenderer
	markdownWidth int

	theme uiTheme
}

type pinger interface {
	Ping(ctx context.Context) error
	BaseURL() string
}

// answerMsg carries the outcome of one chatbot request back to Update.
type answerMsg struct {
	req   session.Request
	reply string
	err   error
}

type probeDoneMsg struct {
	err error
}

type clipboardMsg struct {
	err error
}

func newModel(ctx context.Context, cfg appConfig, sess *session.Session, asker session.Asker, p pinger, logger zerolog.Logger) model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 4000
	input.Placeholder = "Type your message..."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))

	timeline := viewport.New(0, 0)
	timeline.MouseWheelEnabled = true
	timeline.MouseWheelDelta = 4

	return model{
		cfg:        cfg,
		ctx:        ctx,
		session:    sess,
		asker:      asker,
		pinger:     p,
		logger:     logger,
		statusLine: "connecting to " + p.BaseURL() + "...",
		input:      input,
		timeline:   timeline,
		spinner:    sp,
		theme:      newTheme(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.probeCmd())
}

func (m model) probeCmd() tea.Cmd {
	ctx := m.ctx
	p := m.pinger
	return func() tea.Msg {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		return probeDoneMsg{err: p.Ping(probeCtx)}
	}
}

func (m model) askCmd(req session.Request) tea.Cmd {
	ctx := m.ctx
	asker := m.asker
	return func() tea.Msg {
		reply, err := asker.Ask(ctx, req.Query)
		return answerMsg{req: req, reply: reply, err: err}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case probeDoneMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("health probe failed")
			m.setStatus("server unreachable at "+m.pinger.BaseURL(), true)
			break
		}
		m.setStatus("server reachable at "+m.pinger.BaseURL(), false)
	case answerMsg:
		if _, ok := m.session.Settle(msg.req, msg.reply, msg.err); ok {
			if msg.err != nil {
				m.setStatus("request failed", true)
			} else {
				m.setStatus("ready", false)
			}
		}
		m.input.Focus()
		m.renderPanes()
	case clipboardMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("clipboard write failed")
			m.setStatus("copy failed", true)
		} else {
			m.setStatus("last answer copied", false)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderPanes()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	case tea.MouseMsg:
		if m.quitConfirm {
			break
		}
		var cmd tea.Cmd
		m.timeline, cmd = m.timeline.Update(msg)
		cmds = append(cmds, cmd)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.quitConfirm {
			switch msg.String() {
			case "y", "Y", "enter":
				return m, tea.Quit
			case "n", "N", "esc":
				m.quitConfirm = false
				m.setStatus("quit canceled", false)
			}
			return m, tea.Batch(cmds...)
		}

		switch msg.String() {
		case "esc":
			m.quitConfirm = true
			return m, tea.Batch(cmds...)
		case "enter":
			if cmd := m.submit(); cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		case "ctrl+y":
			answer, ok := m.session.Transcript().LastAssistant()
			if !ok {
				m.setStatus("nothing to copy yet", false)
				return m, tea.Batch(cmds...)
			}
			cmds = append(cmds, copyCmd(answer.Text))
			return m, tea.Batch(cmds...)
		case "pgup", "ctrl+b":
			m.timeline.LineUp(8)
			return m, tea.Batch(cmds...)
		case "pgdown", "ctrl+f":
			m.timeline.LineDown(8)
			return m, tea.Batch(cmds...)
		case "up":
			if m.input.Value() == "" {
				m.timeline.LineUp(4)
				return m, tea.Batch(cmds...)
			}
		case "down":
			if m.input.Value() == "" {
				m.timeline.LineDown(4)
				return m, tea.Batch(cmds...)
			}
		case "home":
			if m.input.Value() == "" {
				m.timeline.GotoTop()
				return m, tea.Batch(cmds...)
			}
		case "end":
			if m.input.Value() == "" {
				m.timeline.GotoBottom()
				return m, tea.Batch(cmds...)
			}
		}

		// The input is disabled while an answer is outstanding.
		if m.session.Pending() {
			return m, tea.Batch(cmds...)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.session.OnInputChange(m.input.Value())
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// submit hands the current input to the session. It returns nil when the
// session rejects the submission.
func (m *model) submit() tea.Cmd {
	m.session.OnInputChange(m.input.Value())
	req, ok := m.session.Submit()
	if !ok {
		return nil
	}
	m.input.SetValue("")
	m.input.Blur()
	m.setStatus("asking gonzago...", false)
	m.renderPanes()
	m.timeline.GotoBottom()
	return m.askCmd(req)
}

func (m *model) setStatus(line string, isError bool) {
	m.statusLine = line
	m.statusError = isError
}
