package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/kanban-go/internal/board"
)

var (
	colorFgPrimary = lipgloss.Color("#ABB2BF")
	colorFgMuted   = lipgloss.Color("#636B78")
	colorBorder    = lipgloss.Color("#3F4451")
	colorFocus     = lipgloss.Color("#C678DD")
	colorError     = lipgloss.Color("#E06C75")
	colorOK        = lipgloss.Color("#98C379")
)

// cardColors maps task colors to their accent.
var cardColors = map[board.Color]lipgloss.Color{
	board.Yellow: lipgloss.Color("#E5C07B"),
	board.Pink:   lipgloss.Color("#F5A3C7"),
	board.Blue:   lipgloss.Color("#61AFEF"),
	board.Green:  lipgloss.Color("#98C379"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorFocus).
			Bold(true).
			PaddingLeft(1)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	focusedColumnStyle = columnStyle.
				BorderForeground(colorFocus)

	columnTitleStyle = lipgloss.NewStyle().
				Foreground(colorFgPrimary).
				Bold(true).
				MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			PaddingLeft(1)

	selectedCardStyle = cardStyle.
				Bold(true).
				Border(lipgloss.ThickBorder(), false, false, false, true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorFgMuted).
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorOK).
			PaddingLeft(1)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(colorError).
				PaddingLeft(1)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorFocus).
			PaddingLeft(1)
)

func cardStyleFor(c board.Color, selected bool) lipgloss.Style {
	s := cardStyle
	if selected {
		s = selectedCardStyle
	}
	return s.BorderForeground(cardColors[c])
}
