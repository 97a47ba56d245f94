package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/imgqueue/internal/logtail"
)

type logBatchMsg struct {
	lines []string
	err   error
}

// refreshLogs reads the tail of the log file off the UI goroutine.
func (m Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logBatchMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogBatch(msg logBatchMsg) {
	if msg.err != nil {
		m.logLines = []string{"unable to read log: " + msg.err.Error()}
		return
	}
	m.logLines = logtail.Filter(msg.lines, logtail.LevelInfo)
}

// renderLogs renders the newest log lines that fit, colored by level.
func (m Model) renderLogs(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	inner := max(width-2, 0)
	rows := max(height-2, 0)

	lines := m.logLines
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}

	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		style := styles.MutedText
		switch logtail.LevelOf(line) {
		case logtail.LevelWarn:
			style = styles.WarningText
		case logtail.LevelError:
			style = styles.DangerText
		case logtail.LevelInfo:
			style = styles.Text
		}
		rendered = append(rendered, style.Render(truncate(line, inner)))
	}
	if len(rendered) == 0 {
		msg := "No log output yet"
		if m.logPath == "" {
			msg = "Logging to file is disabled"
		}
		rendered = append(rendered, styles.FaintText.Render(msg))
	}

	title := "LOG"
	if m.logPath != "" {
		title = "LOG " + truncateMiddle(m.logPath, max(inner-8, 10))
	}
	return m.renderTitledBox(title, strings.Join(rendered, "\n"), width, height, false, "")
}
