package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gonzago/gonzago/internal/transcript"
)

type uiTheme struct {
	root        lipgloss.Style
	header      lipgloss.Style
	title       lipgloss.Style
	subtitle    lipgloss.Style
	tagline     lipgloss.Style
	panel       lipgloss.Style
	footer      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	inputPanel  lipgloss.Style
	helpText    lipgloss.Style
	modalFrame  lipgloss.Style
	modalTitle  lipgloss.Style
	modalPick   lipgloss.Style
	sender      map[transcript.Sender]lipgloss.Style
	background  lipgloss.Color
}

func newTheme() uiTheme {
	bg := lipgloss.Color("#111827")
	panelBg := lipgloss.Color("#1f2937")
	border := lipgloss.Color("#374151")
	blue := lipgloss.Color("#3b82f6")
	paleBlue := lipgloss.Color("#bfdbfe")
	text := lipgloss.Color("#f3f4f6")
	muted := lipgloss.Color("#9ca3af")
	red := lipgloss.Color("#f87171")

	return uiTheme{
		root: lipgloss.NewStyle().
			Background(bg).
			Foreground(text).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		title:    lipgloss.NewStyle().Foreground(text).Bold(true),
		subtitle: lipgloss.NewStyle().Foreground(text),
		tagline:  lipgloss.NewStyle().Foreground(paleBlue),
		panel: lipgloss.NewStyle().
			Background(bg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		footer: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(muted).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		status:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(red).Bold(true),
		inputPanel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		helpText: lipgloss.NewStyle().Foreground(muted).Italic(true),
		modalFrame: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(blue).
			Padding(1, 2),
		modalTitle: lipgloss.NewStyle().Foreground(red).Bold(true),
		modalPick: lipgloss.NewStyle().
			Foreground(text).
			Background(blue).
			Bold(true).
			Padding(0, 1),
		sender: map[transcript.Sender]lipgloss.Style{
			transcript.SenderUser:      lipgloss.NewStyle().Foreground(blue).Bold(true),
			transcript.SenderAssistant: lipgloss.NewStyle().Foreground(paleBlue).Bold(true),
		},
		background: bg,
	}
}
