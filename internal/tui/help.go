package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `
# sleepdial

Drag the handles on the dial to set when you go to bed and when you wake up.
The filled arc is the time you sleep.

## Home

- **click and drag**: move the nearest handle
- **←/→** or **h/l**: move the focused handle by ten minutes
- **↑/↓** or **k/j**: move the focused handle by one hour
- **space**: switch between bedtime ☾ and wake ☀
- **1-7**: toggle reminder days, Monday to Sunday
- **r**: turn the bedtime reminder on or off

The reminder fires before bedtime on every selected day.
It needs notifications enabled in Settings.

## Sleep

- **d/w/m**: show the last day, week or month
- **v**: switch between the chart and the list of nights

## Settings

- **↑/↓**: move between fields
- **enter**: save, or toggle notifications

## Everywhere

- **tab / shift+tab**: switch tabs
- **?**: toggle this help
- **q** or **ctrl+c**: quit
`

// renderHelp renders the help markdown wrapped to width.
func renderHelp(width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(maxInt(width, 20)),
	)
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(strings.TrimSpace(helpMarkdown))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
