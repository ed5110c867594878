package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/sleepdial/internal/dial"
	"github.com/verte-zerg/sleepdial/internal/logger"
	"github.com/verte-zerg/sleepdial/internal/stats"
)

const chartHeight = 8

func newNightsTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Day", Width: 4},
			{Title: "Slept", Width: 9},
			{Title: "Goal", Width: 5},
		}),
		table.WithHeight(1),
	)
	t.SetStyles(nightsTableStyles())
	return t
}

func nightsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Foreground(tableMuted.GetForeground()).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// refreshReport reloads the samples for the selected window and rebuilds the
// chart and nights table.
func (m *Model) refreshReport() {
	if m.store == nil {
		return
	}
	goal := m.profile.Goal()
	report, err := stats.BuildReport(context.Background(), m.store, m.window, m.now(), goal)
	if err != nil {
		m.setError("failed to load sleep history", err)
		m.chartView.SetContent("Failed to load sleep history.")
		return
	}
	m.report = report
	m.log.Debug("report refreshed",
		logger.String("window", m.window.String()),
		logger.Int("samples", len(report.Samples)),
	)
	m.chartView.SetContent(m.renderChart())
	m.nightsTable.SetRows(nightRows(report, goal))
}

func (m *Model) renderChart() string {
	s := m.report.Summary
	if s.Count == 0 {
		return mutedStyle.Render("No sleep recorded in this window.")
	}
	cards := []string{
		metricCard("Nights", fmt.Sprintf("%d", s.Count)),
		metricCard("Average", stats.FormatHours(s.Average)),
		metricCard("Best", stats.FormatHours(s.Best)),
		metricCard("Worst", stats.FormatHours(s.Worst)),
		metricCard("Goal met", fmt.Sprintf("%d/%d", s.MetGoal, s.Count)),
	}
	var top string
	if m.width > 0 && m.width < 80 {
		top = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2]),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4]),
		)
	} else {
		top = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	var buf bytes.Buffer
	if err := stats.RenderBarChart(&buf, m.report.Title(), m.report.Samples, s.Goal, width, chartHeight, true); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return top + "\n\n" + strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitle.Render(label), cardValue.Render(value))
	return cardStyle.Render(content)
}

// nightRows lists the newest night first.
func nightRows(r stats.Report, goal float64) []table.Row {
	rows := make([]table.Row, 0, len(r.Samples))
	for i := len(r.Samples) - 1; i >= 0; i-- {
		sample := r.Samples[i]
		mark := "-"
		if sample.DurationHours >= goal {
			mark = "✓"
		}
		rows = append(rows, table.Row{
			sample.Date.Format("2006-01-02"),
			sample.Date.Format("Mon"),
			stats.FormatHours(sample.DurationHours),
			mark,
		})
	}
	return rows
}

func (m *Model) resizeSleep(bodyHeight int) {
	// Selector and a blank line sit above the view.
	height := maxInt(1, bodyHeight-2)
	m.chartView.Width = m.width
	m.chartView.Height = height
	m.nightsTable.SetWidth(m.width)
	m.nightsTable.SetHeight(maxInt(1, height-1))
	if len(m.report.Samples) > 0 {
		m.chartView.SetContent(m.renderChart())
	}
}

func (m *Model) updateSleep(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Window):
		window, err := dial.ParseTimeWindow(msg.String())
		if err != nil {
			return nil
		}
		if window != m.window {
			m.window = window
			m.saveDialState()
			m.refreshReport()
			m.chartView.GotoTop()
		}
		return nil
	case key.Matches(msg, m.keys.ToggleView):
		m.showNights = !m.showNights
		return nil
	case key.Matches(msg, m.keys.Top):
		if m.showNights {
			m.nightsTable.GotoTop()
		} else {
			m.chartView.GotoTop()
		}
		return nil
	case key.Matches(msg, m.keys.Bottom):
		if m.showNights {
			m.nightsTable.GotoBottom()
		} else {
			m.chartView.GotoBottom()
		}
		return nil
	}
	var cmd tea.Cmd
	if m.showNights {
		m.nightsTable, cmd = m.nightsTable.Update(msg)
	} else {
		m.chartView, cmd = m.chartView.Update(msg)
	}
	return cmd
}

func (m *Model) renderSleep() string {
	parts := make([]string, 0, len(dial.Windows()))
	for _, w := range dial.Windows() {
		label := strings.ToUpper(w.String()[:1]) + w.String()[1:]
		if w == m.window {
			parts = append(parts, accentStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, mutedStyle.Render(" "+label+" "))
		}
	}
	selector := strings.Join(parts, " ")
	view := m.chartView.View()
	if m.showNights {
		view = m.nightsTable.View()
	}
	return selector + "\n\n" + view
}
