package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/sleepdial/internal/dial"
	"github.com/verte-zerg/sleepdial/internal/logger"
	"github.com/verte-zerg/sleepdial/internal/notify"
	"github.com/verte-zerg/sleepdial/internal/store"
)

const (
	keyStep      = 2.5 // ten minutes
	hourStep     = 15.0
	readoutWidth = 34
)

func (m *Model) updateHome(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Earlier):
		return m.nudge(-keyStep)
	case key.Matches(msg, m.keys.Later):
		return m.nudge(keyStep)
	case key.Matches(msg, m.keys.HourEarlier):
		return m.nudge(-hourStep)
	case key.Matches(msg, m.keys.HourLater):
		return m.nudge(hourStep)
	case key.Matches(msg, m.keys.SwitchHandle):
		m.focus = m.focus.Other()
		return nil
	case key.Matches(msg, m.keys.Days):
		return m.toggleDay(msg.String())
	case key.Matches(msg, m.keys.Reminder):
		return m.toggleReminder()
	}
	return nil
}

func (m *Model) nudge(delta float64) tea.Cmd {
	m.rng.SetAngle(m.focus, m.rng.Angle(m.focus)+delta)
	return m.commitDial()
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	px, py := m.geom.pointer(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.geom.contains(msg.X, msg.Y) {
			return nil
		}
		m.focus = nearestHandle(m.rng, dial.PointerAngle(px, py))
		m.dragging = true
		m.rng.UpdateFromPointer(px, py, m.focus)
	case tea.MouseActionMotion:
		if !m.dragging {
			return nil
		}
		m.rng.UpdateFromPointer(px, py, m.focus)
	case tea.MouseActionRelease:
		if !m.dragging {
			return nil
		}
		m.dragging = false
		return m.commitDial()
	}
	return nil
}

// toggleDay flips a reminder day. Keys 1-7 map Monday to Sunday.
func (m *Model) toggleDay(k string) tea.Cmd {
	idx := int(k[0] - '1')
	days := dial.Weekdays()
	if idx < 0 || idx >= len(days) {
		return nil
	}
	m.days = m.days.Toggle(days[idx])
	m.saveDialState()
	if m.reminder {
		return m.installReminders()
	}
	return nil
}

func (m *Model) toggleReminder() tea.Cmd {
	m.reminder = !m.reminder
	m.saveDialState()
	if m.reminder {
		m.log.Info("reminder enabled", logger.Strings("days", m.days.Strings()))
		return m.installReminders()
	}
	m.log.Info("reminder disabled")
	if err := m.center.RemoveAll(context.Background()); err != nil {
		m.setError("failed to remove reminders", err)
		return nil
	}
	m.setStatus("Reminder off")
	return nil
}

// commitDial persists the handles and reinstalls reminders when enabled.
func (m *Model) commitDial() tea.Cmd {
	m.saveDialState()
	if m.reminder {
		return m.installReminders()
	}
	return nil
}

func (m *Model) saveDialState() {
	state := store.DialState{
		Start:           m.rng.Angle(dial.Start),
		End:             m.rng.Angle(dial.End),
		Days:            m.days,
		ReminderEnabled: m.reminder,
		Window:          m.window,
	}
	if err := m.store.SaveDialState(context.Background(), state); err != nil {
		m.setError("failed to save dial", err)
	}
}

func (m *Model) installReminders() tea.Cmd {
	triggers := m.rng.NotificationTriggers(m.days)
	bedtime := m.rng.HandleTime(dial.Start)
	done, err := m.center.Install(context.Background(), triggers, bedtime)
	if err != nil {
		m.setError("failed to install reminders", err)
		return nil
	}
	if done == nil {
		m.setStatus("Reminder on, but no days selected")
		return nil
	}
	return func() tea.Msg {
		return installResultMsg{permission: <-done, triggers: triggers}
	}
}

func (m *Model) applyInstallResult(msg installResultMsg) {
	switch msg.permission {
	case notify.PermissionGranted:
		at := ""
		if len(msg.triggers) > 0 {
			at = msg.triggers[0].At.String()
		}
		m.setStatus(fmt.Sprintf("Reminder set for %d day(s) at %s", len(msg.triggers), at))
	case notify.PermissionDenied:
		m.setStatus("Turn on notifications in Settings to get reminders")
	default:
		m.errMsg = "Could not schedule reminders, see the log for details"
	}
}

func (m *Model) renderHome() string {
	lines := strings.Split(renderDial(m.rng, m.geom, m.focus), "\n")
	pad := strings.Repeat(" ", dialMargin)
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	dialBlock := strings.Join(lines, "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, dialBlock, "    ", m.renderReadouts())
}

func (m *Model) renderReadouts() string {
	bed := m.rng.HandleTime(dial.Start)
	wake := m.rng.HandleTime(dial.End)
	hours, minutes := m.rng.Duration()

	label := func(s string) string { return mutedStyle.Render(fmt.Sprintf("%-9s", s)) }
	marker := func(h dial.Handle) string {
		if h == m.focus {
			return accentStyle.Render(" ◂")
		}
		return ""
	}
	reminder := "off"
	if m.reminder {
		at := bed.Add(-m.rng.Lead())
		reminder = fmt.Sprintf("on, %s", dial.FormatClock(at))
	}

	lines := []string{
		titleStyle.Render("Tonight"),
		"",
		label("Bedtime") + fmt.Sprintf("%s %s %s", bedtimeGlyph, dial.FormatClock(bed), bed.Format("Mon")) + marker(dial.Start),
		label("Wake up") + fmt.Sprintf("%s %s %s", wakeGlyph, dial.FormatClock(wake), wake.Format("Mon")) + marker(dial.End),
		label("Asleep") + fmt.Sprintf("%d hr %d min", hours, minutes),
		"",
		label("Reminder") + reminder,
		"",
		m.renderDays(),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderDays() string {
	parts := make([]string, 0, 7)
	for _, d := range dial.Weekdays() {
		if m.days.Has(d) {
			parts = append(parts, dayOnStyle.Render(d.Initial()))
		} else {
			parts = append(parts, dayOffStyle.Render(d.Initial()))
		}
	}
	return strings.Join(parts, " ")
}
