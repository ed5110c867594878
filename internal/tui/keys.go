package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Help      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Dismiss   key.Binding

	Earlier      key.Binding
	Later        key.Binding
	HourEarlier  key.Binding
	HourLater    key.Binding
	SwitchHandle key.Binding
	Reminder     key.Binding
	Days         key.Binding

	Window     key.Binding
	ToggleView key.Binding
	Top        key.Binding
	Bottom     key.Binding

	FieldUp   key.Binding
	FieldDown key.Binding
	Save      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),

		Earlier:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier")),
		Later:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later")),
		HourEarlier:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "-1h")),
		HourLater:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "+1h")),
		SwitchHandle: key.NewBinding(key.WithKeys(" ", "f"), key.WithHelp("space", "switch handle")),
		Reminder:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reminder")),
		Days:         key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "days")),

		Window:     key.NewBinding(key.WithKeys("d", "w", "m"), key.WithHelp("d/w/m", "window")),
		ToggleView: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "chart/nights")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),

		FieldUp:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev field")),
		FieldDown: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next field")),
		Save:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save/toggle")),
	}
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (k keyMap) forTab(tab Tab) helpKeyMap {
	global := []key.Binding{k.NextTab, k.Help, k.Quit}
	var local []key.Binding
	switch tab {
	case TabHome:
		local = []key.Binding{k.Earlier, k.Later, k.HourLater, k.SwitchHandle, k.Days, k.Reminder}
	case TabSleep:
		local = []key.Binding{k.Window, k.ToggleView}
	case TabSettings:
		local = []key.Binding{k.FieldUp, k.FieldDown, k.Save}
		global = []key.Binding{k.NextTab, k.Dismiss}
	}
	short := append(append([]key.Binding(nil), local...), global...)
	return helpKeyMap{short: short, full: [][]key.Binding{local, global}}
}
