// Package tui provides the Bubble Tea sleep dial interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/sleepdial/internal/config"
	"github.com/verte-zerg/sleepdial/internal/dial"
	"github.com/verte-zerg/sleepdial/internal/logger"
	"github.com/verte-zerg/sleepdial/internal/notify"
	"github.com/verte-zerg/sleepdial/internal/stats"
	"github.com/verte-zerg/sleepdial/internal/store"
)

// Tab is a top-level screen.
type Tab int

const (
	TabHome Tab = iota
	TabSleep
	TabSettings
)

var tabNames = []string{"Home", "Sleep", "Settings"}

const (
	dialMargin   = 2
	footerHeight = 2
)

// ReminderCenter installs and removes bedtime reminders.
type ReminderCenter interface {
	Install(ctx context.Context, triggers []dial.Trigger, bedtime time.Time) (<-chan notify.Permission, error)
	RemoveAll(ctx context.Context) error
	LastPermission() notify.Permission
}

// Options wires the model to its collaborators.
type Options struct {
	Store      *store.Store
	Center     ReminderCenter
	Authorizer notify.Authorizer
	Reminders  <-chan notify.Reminder
	Settings   config.Settings
	Profile    store.Profile
	DialState  store.DialState
	Log        *logger.Logger
	Now        func() time.Time
}

type installResultMsg struct {
	permission notify.Permission
	triggers   []dial.Trigger
}

type permissionMsg struct {
	permission notify.Permission
	err        error
}

type reminderMsg struct {
	reminder notify.Reminder
	ok       bool
}

// Model implements the Bubble Tea sleep dial UI.
type Model struct {
	store     *store.Store
	center    ReminderCenter
	auth      notify.Authorizer
	reminders <-chan notify.Reminder
	settings  config.Settings
	log       *logger.Logger
	now       func() time.Time

	profile  store.Profile
	rng      *dial.TimeRange
	days     dial.WeekdaySet
	reminder bool
	focus    dial.Handle
	dragging bool
	geom     dialGeometry

	tab    Tab
	keys   keyMap
	help   help.Model
	width  int
	height int

	showHelp bool
	helpView viewport.Model

	window      dial.TimeWindow
	report      stats.Report
	chartView   viewport.Model
	nightsTable table.Model
	showNights  bool

	inputs        []textinput.Model
	settingsField int

	status string
	errMsg string
	banner string
}

// NewModel constructs the UI model.
func NewModel(opts Options) *Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.String("component", "tui"))
	m := &Model{
		store:     opts.Store,
		center:    opts.Center,
		auth:      opts.Authorizer,
		reminders: opts.Reminders,
		settings:  opts.Settings,
		log:       log,
		now:       now,
		profile:   opts.Profile,
		days:      opts.DialState.Days,
		reminder:  opts.DialState.ReminderEnabled,
		window:    opts.DialState.Window,
		keys:      defaultKeyMap(),
		help:      help.New(),
		helpView:  viewport.New(0, 0),
		chartView: viewport.New(0, 0),
		geom:      dialGeometry{radius: defaultRadius, originX: dialMargin},
	}
	m.rng = dial.New(opts.DialState.Start, opts.DialState.End,
		dial.WithClock(now),
		dial.WithLead(opts.Settings.Lead()),
	)
	m.nightsTable = newNightsTable()
	m.initSettingsForm()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForReminder(m.reminders)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case reminderMsg:
		if !msg.ok {
			return m, nil
		}
		m.banner = fmt.Sprintf("%s · %s", msg.reminder.Title, msg.reminder.Body)
		m.log.Info("reminder fired", logger.String("trigger", msg.reminder.Trigger.String()))
		return m, waitForReminder(m.reminders)
	case installResultMsg:
		m.applyInstallResult(msg)
		return m, nil
	case permissionMsg:
		return m, m.applyPermission(msg)
	case tea.MouseMsg:
		if !m.profile.Onboarded || m.showHelp || m.tab != TabHome {
			return m, nil
		}
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	m.banner = ""
	if !m.profile.Onboarded {
		switch {
		case msg.Type == tea.KeyEnter:
			m.completeOnboarding()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.Quit):
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.NextTab):
		return m, m.setTab(m.tab + 1)
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.setTab(m.tab - 1)
	}
	if m.tab == TabSettings && m.editingText() {
		return m, m.updateSettings(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.openHelp()
		return m, nil
	}
	switch m.tab {
	case TabHome:
		return m, m.updateHome(msg)
	case TabSleep:
		return m, m.updateSleep(msg)
	default:
		return m, m.updateSettings(msg)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if !m.profile.Onboarded {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, renderWelcome())
	}
	headerHeight, bodyHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func renderWelcome() string {
	lines := []string{
		titleStyle.Render("Sleep Tracker"),
		"",
		"Set your bedtime and wake-up time on the dial,",
		"get a reminder before bed and keep an eye on",
		"how much you really sleep.",
		"",
		accentStyle.Render("Press enter to Get Started"),
	}
	return welcomeStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) completeOnboarding() {
	m.profile.Onboarded = true
	if err := m.store.SaveProfile(context.Background(), m.profile); err != nil {
		m.setError("failed to save profile", err)
		return
	}
	m.log.Info("onboarding completed")
}

func (m *Model) setTab(tab Tab) tea.Cmd {
	count := Tab(len(tabNames))
	m.tab = ((tab % count) + count) % count
	m.errMsg = ""
	m.status = ""
	if m.tab == TabSleep {
		m.refreshReport()
		m.nightsTable.Focus()
	} else {
		m.nightsTable.Blur()
	}
	if m.tab == TabSettings {
		return m.focusSettingsField(m.settingsField)
	}
	m.blurInputs()
	return nil
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight int) {
	tabsHeight := maxInt(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	headerHeight, bodyHeight := m.layoutHeights()
	m.geom = dialGeometry{
		radius:  radiusFor(m.width-dialMargin-readoutWidth, bodyHeight),
		originX: dialMargin,
		originY: headerHeight,
	}
	m.help.Width = m.width
	m.helpView.Width = m.width
	m.helpView.Height = bodyHeight
	m.resizeSleep(bodyHeight)
	for i := range m.inputs {
		m.inputs[i].Width = maxInt(10, minInt(48, m.width-lipgloss.Width(m.inputs[i].Prompt)-4))
	}
	if m.showHelp {
		m.openHelp()
	}
}

func (m *Model) openHelp() {
	m.showHelp = true
	content, err := renderHelp(m.width - 2)
	if err != nil {
		content = "help unavailable: " + err.Error()
	}
	m.helpView.SetContent(content)
	m.helpView.GotoTop()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			parts = append(parts, activeNavStyle.Render(name))
		} else {
			parts = append(parts, inactiveNavStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	greeting := greetingFor(m.now().Hour())
	if name := strings.TrimSpace(m.profile.UserName); name != "" {
		greeting += ", " + name
	}
	line := truncateLine(fmt.Sprintf("%s  ·  goal %s", greeting, stats.FormatHours(m.profile.Goal())), m.width)
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(line)
}

func greetingFor(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func (m *Model) renderBody() string {
	if m.showHelp {
		return m.helpView.View()
	}
	switch m.tab {
	case TabSleep:
		return m.renderSleep()
	case TabSettings:
		return m.renderSettings()
	default:
		return m.renderHome()
	}
}

func (m *Model) renderFooter() string {
	helpLine := m.help.View(m.keys.forTab(m.tab))
	var second string
	switch {
	case m.banner != "":
		second = bannerStyle.Render(m.banner)
	case m.errMsg != "":
		second = errorStyle.Render(truncateLine(m.errMsg, m.width))
	case m.status != "":
		second = statusStyle.Render(truncateLine(m.status, m.width))
	}
	return helpLine + "\n" + second
}

func (m *Model) setError(msg string, err error) {
	m.errMsg = fmt.Sprintf("%s: %v", msg, err)
	m.status = ""
	m.log.Error(msg, logger.Error(err))
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.errMsg = ""
}

func waitForReminder(ch <-chan notify.Reminder) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		return reminderMsg{reminder: r, ok: ok}
	}
}
