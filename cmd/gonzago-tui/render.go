package main

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/gonzago/gonzago/internal/transcript"
)

const (
	appTitle    = "Gonzago"
	appSubtitle = "Your digital Shakespeare expert"
	appTagline  = "Ask Gonzago about characters, events, scenes and themes in Shakespeare's plays!"
	appHint     = `You can help Gonzago by specifying the Act and Scene name, eg: "What does the ghost say to Hamlet in Act I, Scene 1?".`
)

var senderLabels = map[transcript.Sender]string{
	transcript.SenderUser:      "you",
	transcript.SenderAssistant: "gonzago",
}

func (m model) View() string {
	out := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderContent(),
		m.renderInput(),
		m.renderFooter(),
	)
	if m.quitConfirm {
		out = m.renderQuitModal()
	}
	return m.theme.root.Render(out)
}

func (m *model) contentWidth() int {
	return maxInt(40, m.width-4)
}

func (m *model) renderHeader() string {
	width := m.contentWidth()
	lines := []string{
		m.theme.title.Render(appTitle) + "  " + m.theme.subtitle.Render(appSubtitle),
		m.theme.tagline.Render(wrapText(appTagline, width-4)),
		m.theme.helpText.Render(wrapText(appHint, width-4)),
	}
	return m.theme.header.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *model) renderContent() string {
	return m.theme.panel.
		Width(m.contentWidth()).
		Height(m.timeline.Height).
		Render(m.timeline.View())
}

func (m *model) renderInput() string {
	inputView := m.input.View()
	if m.session.Pending() {
		inputView = m.spinner.View() + " waiting for gonzago..."
	}
	return m.theme.inputPanel.Width(m.contentWidth()).Render(inputView)
}

func (m *model) renderFooter() string {
	statusStyle := m.theme.status
	if m.statusError {
		statusStyle = m.theme.errorStatus
	}
	line := statusStyle.Render(compactSingleLine(m.statusLine, 180))
	hints := m.theme.helpText.Render("Keys: Enter send · PgUp/PgDn or Up/Down (input empty) scroll · Ctrl+Y copy answer · Esc quit prompt · Ctrl+C quit")
	return m.theme.footer.Width(m.contentWidth()).Render(line + "\n" + hints)
}

func (m *model) renderQuitModal() string {
	canvasWidth := m.contentWidth()
	canvasHeight := maxInt(12, m.height-4)
	modalWidth := clampInt(int(float64(canvasWidth)*0.56), 32, 78)
	if modalWidth > canvasWidth-2 {
		modalWidth = canvasWidth - 2
	}

	note := "The conversation is not kept after you quit."
	if m.cfg.transcriptOut != "" {
		note = "The transcript will be written to " + m.cfg.transcriptOut + "."
	}
	if m.session.Pending() {
		note = "An answer is still on its way and will be lost. " + note
	}
	body := strings.Join([]string{
		m.theme.modalTitle.Render("Leave Gonzago?"),
		"",
		m.theme.helpText.Render(wrapText(note, modalWidth-6)),
		"",
		m.theme.modalPick.Render("[Y / Enter] Quit") + "    " + m.theme.helpText.Render("[N / Esc] Return"),
	}, "\n")
	panel := m.theme.modalFrame.Width(modalWidth).Render(body)
	return lipgloss.Place(
		canvasWidth,
		canvasHeight,
		lipgloss.Center,
		lipgloss.Center,
		panel,
		lipgloss.WithWhitespaceBackground(m.theme.background),
	)
}

func (m *model) resize() {
	m.input.Width = maxInt(20, m.contentWidth()-6)
}

// renderPanes sizes the timeline and refreshes its content. The view stays
// pinned to the bottom unless the user has scrolled up.
func (m *model) renderPanes() {
	prevYOffset := m.timeline.YOffset
	prevAtBottom := m.timeline.AtBottom()

	// header (5) + input (3) + footer (4) + panel border (2)
	m.timeline.Width = maxInt(20, m.contentWidth()-4)
	m.timeline.Height = maxInt(5, m.height-14)

	m.timeline.SetContent(m.renderTimeline())
	if prevAtBottom {
		m.timeline.GotoBottom()
	} else {
		m.timeline.SetYOffset(prevYOffset)
	}
}

func (m *model) renderTimeline() string {
	turns := m.session.Transcript().Turns()
	if len(turns) == 0 {
		return m.theme.helpText.Render("No messages yet. Ask about a play, a character or a scene to start.")
	}
	width := maxInt(24, m.timeline.Width-2)
	var b strings.Builder
	for _, turn := range turns {
		b.WriteString(m.theme.sender[turn.Sender].Render("[" + senderLabels[turn.Sender] + "]"))
		b.WriteString("\n")
		if turn.Sender == transcript.SenderAssistant {
			b.WriteString(m.renderAnswer(turn.Text, width))
		} else {
			b.WriteString(wrapText(turn.Text, width))
		}
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// renderAnswer renders assistant text as markdown when enabled, falling back
// to plain wrapping.
func (m *model) renderAnswer(text string, width int) string {
	if !m.cfg.markdown {
		return wrapText(text, width)
	}
	if m.markdown == nil || m.markdownWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.logger.Warn().Err(err).Msg("markdown renderer unavailable")
			m.cfg.markdown = false
			return wrapText(text, width)
		}
		m.markdown = r
		m.markdownWidth = width
	}
	out, err := m.markdown.Render(text)
	if err != nil {
		m.logger.Debug().Err(err).Msg("markdown render failed")
		return wrapText(text, width)
	}
	return strings.Trim(out, "\n")
}
