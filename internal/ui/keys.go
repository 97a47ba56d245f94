package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding
	ToggleLogs key.Binding

	// Queue
	AddFiles    key.Binding
	Remove      key.Binding
	Clear       key.Binding
	Destination key.Binding
	Convert     key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Settings
	Decrease key.Binding
	Increase key.Binding
	StepDown key.Binding
	StepUp   key.Binding

	// Modal input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Queue/settings focus"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / back"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle log view"),
		),

		AddFiles: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add files"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "Remove selected"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear queue"),
		),
		Destination: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Destination folder"),
		),
		Convert: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Convert"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Decrease: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "Previous value / quality -1"),
		),
		Increase: key.NewBinding(
			key.WithKeys("right", " "),
			key.WithHelp("right/space", "Next value / quality +1"),
		),
		StepDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Quality -10"),
		),
		StepUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Quality +10"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddFiles, k.Destination, k.Convert, k.Remove, k.Clear, k.Tab, k.Help}
}

// FullHelp returns key bindings for the help overlay, one group per section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddFiles, k.Destination, k.Convert, k.Remove, k.Clear},
		{k.Up, k.Down, k.Top, k.Bottom, k.Tab},
		{k.Decrease, k.Increase, k.StepDown, k.StepUp, k.Confirm},
		{k.ToggleLogs, k.CycleTheme, k.Help, k.Escape, k.Quit},
	}
}
