package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/sleepdial/internal/logger"
	"github.com/verte-zerg/sleepdial/internal/notify"
	"github.com/verte-zerg/sleepdial/internal/validation"
)

const (
	fieldName = iota
	fieldEmail
	fieldNotifications
	fieldGoalHours
	fieldGoalMinutes
	fieldCount
)

// inputFor maps a settings field to its text input, or -1 for toggles.
func inputFor(field int) int {
	switch field {
	case fieldName:
		return 0
	case fieldEmail:
		return 1
	case fieldGoalHours:
		return 2
	case fieldGoalMinutes:
		return 3
	}
	return -1
}

func newSettingsInput(prompt string, limit int) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = limit
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) initSettingsForm() {
	m.inputs = []textinput.Model{
		newSettingsInput("Name:          ", 64),
		newSettingsInput("Email:         ", 254),
		newSettingsInput("Goal hours:    ", 2),
		newSettingsInput("Goal minutes:  ", 2),
	}
	m.inputs[1].Placeholder = "you@example.com"
	m.resetSettingsForm()
}

func (m *Model) resetSettingsForm() {
	m.inputs[0].SetValue(m.profile.UserName)
	m.inputs[1].SetValue(m.profile.Email)
	m.inputs[2].SetValue(strconv.Itoa(m.profile.GoalHours))
	m.inputs[3].SetValue(strconv.Itoa(m.profile.GoalMinutes))
}

func (m *Model) editingText() bool {
	idx := inputFor(m.settingsField)
	return idx >= 0 && m.inputs[idx].Focused()
}

func (m *Model) focusSettingsField(field int) tea.Cmd {
	m.settingsField = maxInt(0, minInt(fieldCount-1, field))
	m.blurInputs()
	if idx := inputFor(m.settingsField); idx >= 0 {
		return m.inputs[idx].Focus()
	}
	return nil
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.FieldUp):
		return m.focusSettingsField(m.settingsField - 1)
	case key.Matches(msg, m.keys.FieldDown):
		return m.focusSettingsField(m.settingsField + 1)
	case key.Matches(msg, m.keys.Dismiss):
		m.blurInputs()
		m.resetSettingsForm()
		return nil
	case key.Matches(msg, m.keys.Save):
		if m.settingsField == fieldNotifications {
			return m.toggleNotifications()
		}
		m.saveSettingsForm()
		return nil
	}
	idx := inputFor(m.settingsField)
	if idx < 0 {
		return nil
	}
	var cmds []tea.Cmd
	if !m.inputs[idx].Focused() {
		cmds = append(cmds, m.inputs[idx].Focus())
	}
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (m *Model) saveSettingsForm() {
	hours, err := strconv.Atoi(strings.TrimSpace(m.inputs[2].Value()))
	if err != nil {
		m.errMsg = "Goal hours must be a number"
		return
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(m.inputs[3].Value()))
	if err != nil {
		m.errMsg = "Goal minutes must be a number"
		return
	}
	p := m.profile
	p.UserName = strings.TrimSpace(m.inputs[0].Value())
	p.Email = strings.TrimSpace(m.inputs[1].Value())
	p.GoalHours = hours
	p.GoalMinutes = minutes
	checks := []struct {
		name  string
		value any
		tag   string
	}{
		{"email", p.Email, "omitempty,email"},
		{"goal hours", p.GoalHours, "gte=1,lte=11"},
		{"goal minutes", p.GoalMinutes, "gte=0,lte=59"},
	}
	for _, c := range checks {
		if err := validation.Var(c.name, c.value, c.tag); err != nil {
			m.setError("invalid settings", err)
			return
		}
	}
	if err := m.store.SaveProfile(context.Background(), p); err != nil {
		m.setError("failed to save settings", err)
		return
	}
	m.profile = p
	m.log.Info("settings saved", logger.Float("goal_hours", p.Goal()))
	m.setStatus("Settings saved")
	m.refreshReport()
}

func (m *Model) toggleNotifications() tea.Cmd {
	p := m.profile
	p.NotificationsEnabled = !p.NotificationsEnabled
	if err := m.store.SaveProfile(context.Background(), p); err != nil {
		m.setError("failed to save settings", err)
		return nil
	}
	m.profile = p
	m.log.Info("notifications toggled", logger.Bool("enabled", p.NotificationsEnabled))
	if !p.NotificationsEnabled {
		if err := m.center.RemoveAll(context.Background()); err != nil {
			m.setError("failed to remove reminders", err)
			return nil
		}
		m.setStatus("Notifications off")
		return nil
	}
	auth := m.auth
	if auth == nil {
		return func() tea.Msg { return permissionMsg{permission: notify.PermissionDenied} }
	}
	return func() tea.Msg {
		perm, err := auth.RequestAuthorization(context.Background())
		return permissionMsg{permission: perm, err: err}
	}
}

func (m *Model) applyPermission(msg permissionMsg) tea.Cmd {
	m.log.Info("notification permission", logger.String("permission", msg.permission.String()))
	if msg.err != nil {
		m.setError("notification permission failed", msg.err)
		return nil
	}
	switch msg.permission {
	case notify.PermissionGranted:
		m.setStatus("Notifications on")
		if m.reminder {
			return m.installReminders()
		}
	case notify.PermissionDenied:
		m.setStatus("Notifications are not allowed")
	default:
		m.errMsg = "Could not request notification permission"
	}
	return nil
}

func (m *Model) renderSettings() string {
	lines := []string{titleStyle.Render("Settings"), ""}
	for field := 0; field < fieldCount; field++ {
		marker := "  "
		if field == m.settingsField {
			marker = accentStyle.Render("› ")
		}
		var row string
		if idx := inputFor(field); idx >= 0 {
			row = m.inputs[idx].View()
		} else {
			state := "off"
			if m.profile.NotificationsEnabled {
				state = "on"
			}
			row = "Notifications: " + accentStyle.Render("["+state+"]")
		}
		lines = append(lines, marker+row)
	}
	lines = append(lines,
		"",
		mutedStyle.Render(fmt.Sprintf("Reminders fire %d min before bedtime.", m.settings.Dial.LeadMinutes)),
		mutedStyle.Render("Permission: "+m.center.LastPermission().String()),
	)
	return strings.Join(lines, "\n")
}
