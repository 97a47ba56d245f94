package ui

import (
	"time"

	"github.com/five82/imgqueue/internal/dropzone"
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the settings pane
	// stacks under the queue.
	LayoutCompactWidth = 90

	// LayoutExtraWideWidth is the threshold for a narrower settings pane.
	LayoutExtraWideWidth = 160
)

// Fixed rows around the content area.
const (
	headerRows = 2 // header + command bar
	footerRows = 2 // status line + progress/hint line
)

// Log display limits.
const (
	// LogTailLines is how many lines the log view reads from the file.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default snapshot refresh interval.
	DefaultUIInterval = 250 * time.Millisecond
)

// layout is the geometry of the main screen.
type layout struct {
	queue    dropzone.Rect
	settings dropzone.Rect
}

// computeLayout splits the content area between the queue pane, which is
// also the drop target, and the settings pane.
func computeLayout(width, height int) layout {
	contentHeight := max(height-headerRows-footerRows, 3)
	if width < LayoutCompactWidth {
		settingsHeight := min(settingsRowCount+2, contentHeight/2)
		queueHeight := contentHeight - settingsHeight
		return layout{
			queue:    dropzone.Rect{X: 0, Y: headerRows, Width: width, Height: queueHeight},
			settings: dropzone.Rect{X: 0, Y: headerRows + queueHeight, Width: width, Height: settingsHeight},
		}
	}

	queueWidth := width * 60 / 100
	if width >= LayoutExtraWideWidth {
		queueWidth = width * 70 / 100
	}
	return layout{
		queue:    dropzone.Rect{X: 0, Y: headerRows, Width: queueWidth, Height: contentHeight},
		settings: dropzone.Rect{X: queueWidth, Y: headerRows, Width: width - queueWidth, Height: contentHeight},
	}
}
