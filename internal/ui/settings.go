package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/imgqueue/internal/settings"
)

// Settings pane rows.
const (
	rowDestination = iota
	rowFormat
	rowQuality
	rowStripMetadata
	rowPreserveTransparency
	settingsRowCount
)

// handleSettingsKey edits the focused settings row.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.settingsRow > 0 {
			m.settingsRow--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.settingsRow < settingsRowCount-1 {
			m.settingsRow++
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.settingsRow = 0
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.settingsRow = settingsRowCount - 1
		return m, nil
	}

	current := m.snapshot.Settings
	switch m.settingsRow {
	case rowDestination:
		if key.Matches(msg, m.keys.Confirm, m.keys.Increase) {
			return m.openPicker(pickFolder, current.DestinationFolder), nil
		}
	case rowFormat:
		switch {
		case key.Matches(msg, m.keys.Increase, m.keys.Confirm):
			m.session.SetOutputFormat(m.ctx, current.OutputFormat.Next())
		case key.Matches(msg, m.keys.Decrease):
			m.session.SetOutputFormat(m.ctx, current.OutputFormat.Prev())
		}
	case rowQuality:
		switch {
		case key.Matches(msg, m.keys.Increase):
			m.session.SetQuality(m.ctx, current.Quality+1)
		case key.Matches(msg, m.keys.Decrease):
			m.session.SetQuality(m.ctx, current.Quality-1)
		case key.Matches(msg, m.keys.StepUp):
			m.session.SetQuality(m.ctx, current.Quality+10)
		case key.Matches(msg, m.keys.StepDown):
			m.session.SetQuality(m.ctx, current.Quality-10)
		}
	case rowStripMetadata:
		if key.Matches(msg, m.keys.Increase, m.keys.Decrease, m.keys.Confirm) {
			m.session.SetStripMetadata(m.ctx, !current.StripMetadata)
		}
	case rowPreserveTransparency:
		if key.Matches(msg, m.keys.Increase, m.keys.Decrease, m.keys.Confirm) {
			m.session.SetPreserveTransparency(m.ctx, !current.PreserveTransparency)
		}
	}
	m.syncSnapshot()
	return m, nil
}

// renderSettingsPane renders the converter settings.
func (m Model) renderSettingsPane(width, height int) string {
	focused := m.focus == focusSettings
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	inner := max(width-2, 0)
	s := m.snapshot.Settings

	rows := settingsRows(s, inner)
	lines := make([]string, 0, len(rows)+2)
	for i, row := range rows {
		rowBg := bgColor
		selected := focused && i == m.settingsRow
		if selected {
			rowBg = m.theme.SelectionBg
		}
		lines = append(lines, m.formatSettingsRow(row, inner, rowBg, selected))
	}

	if s.OutputFormat.Lossless() && height-2 > len(lines)+1 {
		styles := m.theme.Styles().WithBackground(bgColor)
		lines = append(lines, "", styles.FaintText.Render(" quality has no effect on "+strings.ToUpper(string(s.OutputFormat))))
	}
	return m.renderTitledBox("SETTINGS", strings.Join(lines, "\n"), width, height, focused, "")
}

type settingsRow struct {
	label string
	value string
	unset bool
}

func settingsRows(s settings.Settings, width int) []settingsRow {
	dest := s.DestinationFolder
	unset := !s.DestinationSet()
	if unset {
		dest = "not set"
	}
	return []settingsRow{
		{label: "Destination", value: truncateMiddle(dest, max(width-16, 8)), unset: unset},
		{label: "Format", value: "◂ " + strings.ToUpper(string(s.OutputFormat)) + " ▸"},
		{label: "Quality", value: fmt.Sprintf("%d", s.Quality)},
		{label: "Strip metadata", value: yesNo(s.StripMetadata)},
		{label: "Transparency", value: keepDrop(s.PreserveTransparency)},
	}
}

func (m Model) formatSettingsRow(row settingsRow, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	labelStyle := styles.MutedText
	valueStyle := styles.Text
	if row.unset {
		valueStyle = styles.WarningText
	}
	if selected {
		labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		valueStyle = labelStyle.Bold(true)
	}

	const labelWidth = 15
	label := lipgloss.NewStyle().Width(labelWidth).Background(lipgloss.Color(bgColor)).Render(labelStyle.Background(lipgloss.Color(bgColor)).Render(row.label))
	return bg.FillLine(bg.Space()+label+bg.Render(row.value, valueStyle), width)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func keepDrop(v bool) string {
	if v {
		return "preserve"
	}
	return "flatten"
}
