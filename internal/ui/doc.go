// Package ui provides the Bubble Tea terminal interface for imgqueue.
//
// # Architecture Overview
//
// Model is a Bubble Tea model that renders a session.Session snapshot. Every
// user action calls a session method and then re-reads the snapshot; the
// batch itself runs in a tea.Cmd, and its progress reaches the screen
// through the periodic snapshot tick.
//
// # Package Structure
//
//   - app.go: Model, Update/View, messages and commands, Run
//   - queue.go: Queue pane (the drop target) and bordered pane rendering
//   - settings.go: Settings pane and its key handling
//   - header.go: Header, command bar, status line and progress footer
//   - modal.go: Picker modal (file and folder input) and success modal
//   - drag.go: Mouse motion, focus loss and paste mapped to drag events
//   - logs.go: Log view backed by logtail
//   - help.go, keys.go, theme.go, layout.go, style_helpers.go
//
// # Drag and Drop
//
// Dropping files on a terminal pastes their paths. With mouse motion
// reporting on, the last pointer position is known, so the paste becomes a
// drop event at that position and the queue pane's hit test decides whether
// it is accepted. Pointer motion over the pane highlights it; leaving the
// pane or the terminal losing focus clears the highlight.
//
// # Key Bindings
//
//   - a: Add files (paths or glob patterns)
//   - o: Choose destination folder
//   - c: Convert the queue (disabled while running)
//   - x: Remove selected entry
//   - C: Clear queue
//   - Tab: Switch focus between queue and settings
//   - left/right, space, +/-: Edit the selected setting
//   - l: Toggle log view
//   - T: Cycle theme (persisted)
//   - h/?: Help
//   - e or Ctrl+C: Exit
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:   ctx,
//		Session:   sess,
//		ThemeName: theme,
//		LogPath:   cfg.LogPath(),
//	})
package ui
