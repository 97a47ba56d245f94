package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/imgqueue/internal/imagefile"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// pickerKind says what a picker selects.
type pickerKind int

const (
	pickFiles pickerKind = iota
	pickFolder
)

// pickerResultMsg carries the submitted picker input. An empty Value means
// the picker was cancelled.
type pickerResultMsg struct {
	Kind  pickerKind
	Value string
}

// pickerModal is the terminal stand-in for the native file and folder
// dialogs: a single text input.
type pickerModal struct {
	kind  pickerKind
	input textinput.Model
}

func newPickerModal(kind pickerKind, initial string) *pickerModal {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.SetValue(initial)
	ti.CursorEnd()
	switch kind {
	case pickFolder:
		ti.Placeholder = "~/Pictures/converted"
	default:
		ti.Placeholder = "~/Pictures/*.png '/path/with spaces/photo.jpg'"
	}
	ti.Focus()
	return &pickerModal{kind: kind, input: ti}
}

func (p *pickerModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok && !km.Paste {
		switch {
		case key.Matches(km, keys.Escape):
			kind := p.kind
			return p, func() tea.Msg { return pickerResultMsg{Kind: kind} }, true
		case key.Matches(km, keys.Confirm):
			result := pickerResultMsg{Kind: p.kind, Value: strings.TrimSpace(p.input.Value())}
			return p, func() tea.Msg { return result }, true
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false
}

func (p *pickerModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	title := "Add files"
	hint := "Paths or glob patterns, space separated. Supported: " +
		strings.Join(imagefile.SupportedExtensions(), ", ")
	if p.kind == pickFolder {
		title = "Destination folder"
		hint = "Converted files are written here."
	}

	modalWidth := min(max(width-10, 30), 80)
	p.input.Width = modalWidth - 8

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(hint))
	b.WriteString("\n\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("enter: confirm  esc: cancel"))

	return placeModal(theme, width, height, modalWidth, theme.Accent, b.String())
}

// renderSuccess renders the success modal for a finished batch.
func (m Model) renderSuccess() string {
	styles := m.theme.Styles()
	modalWidth := min(max(m.width-10, 30), 70)

	var b strings.Builder
	b.WriteString(styles.SuccessText.Render("Conversion complete"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(modalWidth - 6).
		Render(m.snapshot.SuccessText))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("enter/esc: close"))

	return placeModal(m.theme, m.width, m.height, modalWidth, m.theme.Success, b.String())
}

func placeModal(theme Theme, width, height, modalWidth int, border, content string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(modalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
