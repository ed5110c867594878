package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#7A6FF0"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8FD694"))
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#101010")).Background(lipgloss.Color("#C8B6FF")).Bold(true).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8B6FF")).Bold(true)
	ringStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	arcStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7A6FF0"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	handleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#101010")).Background(lipgloss.Color("#F5C451")).Bold(true)
	dayOnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#101010")).Background(lipgloss.Color("#7A6FF0")).Padding(0, 1)
	dayOffStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Background(lipgloss.Color("#2A2A2A")).Padding(0, 1)
	cardStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValue    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	welcomeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#7A6FF0")).
			Padding(1, 4)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

// fitLines pads or cuts s to exactly height lines of width cells.
func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
