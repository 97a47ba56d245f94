package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/imgqueue/internal/imagefile"
	"github.com/five82/imgqueue/internal/queue"
)

// clampSelection keeps the selected row inside the queue, preferring the
// previously selected entry when it is still present.
func (m *Model) clampSelection(previousID string) {
	entries := m.snapshot.Queue
	if len(entries) == 0 {
		m.selectedRow = 0
		return
	}
	if previousID != "" {
		for i, entry := range entries {
			if entry.ID == previousID {
				m.selectedRow = i
				return
			}
		}
	}
	if m.selectedRow >= len(entries) {
		m.selectedRow = len(entries) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m Model) selectedEntry() *queue.Entry {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Queue) {
		return nil
	}
	entry := m.snapshot.Queue[m.selectedRow]
	return &entry
}

// renderQueuePane renders the queue, which doubles as the drop target.
func (m Model) renderQueuePane(width, height int) string {
	focused := m.focus == focusQueue
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}

	title := m.snapshot.CountLabel()
	border := ""
	if m.snapshot.DropActive {
		title = "DROP FILES TO ADD"
		border = m.theme.DropTarget
	}

	var content string
	if len(m.snapshot.Queue) == 0 {
		content = m.renderEmptyQueue(width-2, height-2, bgColor)
	} else {
		content = m.renderQueueRows(width-2, height-2, bgColor)
	}
	return m.renderTitledBox(title, content, width, height, focused, border)
}

func (m Model) renderEmptyQueue(width, height int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	lines := []string{
		styles.MutedText.Render("Drop images here"),
		styles.FaintText.Render("or press a to add files"),
		"",
		styles.FaintText.Render(strings.ToUpper(strings.Join(imagefile.SupportedExtensions(), " · "))),
	}
	return lipgloss.Place(width, max(height, 1), lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(bgColor)))
}

// renderQueueRows renders one line per entry: name, format badge, size.
func (m Model) renderQueueRows(width, height int, bgColor string) string {
	entries := m.snapshot.Queue

	// Scroll so the selection stays visible.
	start := 0
	if height > 0 && m.selectedRow >= height {
		start = m.selectedRow - height + 1
	}
	end := len(entries)
	if height > 0 && end-start > height {
		end = start + height
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rowBg := bgColor
		selected := i == m.selectedRow && m.focus == focusQueue
		if selected {
			rowBg = m.theme.SelectionBg
		}
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(m.formatQueueRow(entries[i], width, rowBg, selected)))
	}
	return strings.Join(lines, "\n")
}

// formatQueueRow formats "name  FORMAT  size" within width.
func (m Model) formatQueueRow(entry queue.Entry, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	textStyle := styles.Text
	mutedStyle := styles.MutedText
	if selected {
		textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		mutedStyle = textStyle
	}

	badge := styles.FormatStyle(entry.FormatTag).Render(imagefile.Label(entry.FormatTag))
	size := imagefile.FormatSize(entry.SizeBytes)

	const sizeWidth = 10
	nameWidth := max(width-lipgloss.Width(badge)-sizeWidth-3, 4)
	name := truncate(entry.DisplayName, nameWidth)

	return bg.Space() +
		bg.FillLine(textStyle.Background(lipgloss.Color(bgColor)).Render(name), nameWidth) +
		bg.Space() +
		badge +
		bg.FillLine(mutedStyle.Background(lipgloss.Color(bgColor)).Width(sizeWidth).Align(lipgloss.Right).Render(size), sizeWidth)
}

// renderTitledBox draws a bordered pane with the title embedded in the top
// border. An empty borderOverride uses the focus colors.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool, borderOverride string) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	if borderOverride != "" {
		borderColorStr = borderOverride
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
