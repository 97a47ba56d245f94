package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/imgqueue/internal/convert"
	"github.com/five82/imgqueue/internal/imagefile"
)

// renderHeader renders the top bar: logo, queue count, destination, state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("imgqueue", styles.Logo),
		bg.Render(m.snapshot.CountLabel(), styles.Text.Bold(true)),
	}

	s := m.snapshot.Settings
	parts = append(parts, bg.Render("→ "+strings.ToUpper(string(s.OutputFormat)), styles.AccentText))
	if s.DestinationSet() {
		parts = append(parts, bg.Render(truncateMiddle(s.DestinationFolder, 40), styles.MutedText))
	} else {
		parts = append(parts, bg.Render("no destination", styles.WarningText))
	}
	if m.snapshot.Converting {
		parts = append(parts, bg.Render("CONVERTING", styles.InfoText.Bold(true)))
	}
	if m.view == viewLogs {
		parts = append(parts, bg.Render("LOGS", styles.AccentText.Bold(true)))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	var segments []string
	if m.view == viewLogs {
		segments = append(segments,
			bg.Render("l", styles.AccentText)+colon+bg.Render("Back", styles.MutedText),
			bg.Render("?", styles.AccentText)+colon+bg.Render("More", styles.MutedText))
	} else {
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			desc := h.Desc
			if h.Key == "c" && m.snapshot.Converting {
				desc = "Running"
			}
			segments = append(segments,
				bg.Render(h.Key, styles.AccentText)+colon+bg.Render(desc, styles.MutedText))
		}
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderStatusLine renders the status text, colored by the last outcome.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	style := styles.Text
	switch {
	case m.snapshot.Converting:
		style = styles.InfoText
	case !m.snapshot.HasOutcome:
	case m.snapshot.LastOutcome == convert.OutcomeCompleted:
		style = styles.SuccessText
	case m.snapshot.LastOutcome == convert.OutcomeAborted || m.snapshot.LastOutcome == convert.OutcomePartial:
		style = styles.DangerText
	case m.snapshot.LastOutcome.Guidance():
		style = styles.WarningText
	}
	text := truncate(m.snapshot.Status, max(m.width-2, 0))
	return styles.Header.Width(m.width).Render(style.Render(text))
}

// renderFooter renders the batch progress bar while converting, otherwise
// the metadata and transparency flags.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.snapshot.Converting && m.snapshot.HasProgress {
		p := m.snapshot.Progress
		label := fmt.Sprintf("%d/%d %s", p.Index+1, p.Total, p.Entry.DisplayName)
		labelWidth := min(lipgloss.Width(label), max(m.width/3, 10))
		bar := m.progress
		bar.Width = max(m.width-labelWidth-4, 10)
		percent := 0.0
		if p.Total > 0 {
			percent = float64(p.Index) / float64(p.Total)
		}
		return styles.Header.Width(m.width).Render(
			bar.ViewAs(percent) + bg.Space() + bg.Render(truncate(label, labelWidth), styles.MutedText))
	}

	s := m.snapshot.Settings
	parts := []string{
		bg.Render("metadata", styles.FaintText) + bg.Space() + bg.Render(stripLabel(s.StripMetadata), styles.MutedText),
		bg.Render("transparency", styles.FaintText) + bg.Space() + bg.Render(keepDrop(s.PreserveTransparency), styles.MutedText),
	}
	if !s.OutputFormat.Lossless() {
		parts = append(parts, bg.Render("quality", styles.FaintText)+bg.Space()+bg.Render(fmt.Sprint(s.Quality), styles.MutedText))
	}
	if entry := m.selectedEntry(); entry != nil && m.focus == focusQueue {
		parts = append(parts, bg.Render(truncateMiddle(entry.Path, 50), styles.FaintText)+bg.Space()+
			bg.Render(imagefile.FormatSize(entry.SizeBytes), styles.MutedText))
	}
	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func stripLabel(strip bool) string {
	if strip {
		return "removed"
	}
	return "kept"
}
