package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/imgqueue/internal/convert"
	"github.com/five82/imgqueue/internal/dropzone"
	"github.com/five82/imgqueue/internal/session"
	"github.com/five82/imgqueue/internal/state"
)

// view is the content shown between the header and the footer.
type view int

const (
	viewMain view = iota
	viewLogs
)

// focus is the pane receiving navigation keys in the main view.
type focus int

const (
	focusQueue focus = iota
	focusSettings
)

// Options configures the UI. Session is required.
type Options struct {
	Context   context.Context
	Session   *session.Session
	ThemeName string
	LogPath   string
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx     context.Context
	session *session.Session
	keys    keyMap
	logPath string
	tick    time.Duration

	// UI state
	theme  Theme
	view   view
	focus  focus
	width  int
	height int
	ready  bool

	// Data state
	snapshot state.Snapshot

	selectedRow int
	settingsRow int

	pointer  *dropzone.Point
	modal    Modal
	showHelp bool
	progress progress.Model
	logLines []string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}
	theme := GetTheme(themeName)

	m := Model{
		ctx:      ctx,
		session:  opts.Session,
		keys:     DefaultKeyMap(),
		logPath:  opts.LogPath,
		tick:     tick,
		theme:    theme,
		progress: newProgressBar(theme),
	}
	m.syncSnapshot()
	return m
}

func newProgressBar(theme Theme) progress.Model {
	return progress.New(
		progress.WithGradient(theme.Accent, theme.Success),
		progress.WithoutPercentage(),
	)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tick), fetchSnapshotCmd(m.session.Store()))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.BlurMsg:
		return m.handleBlur()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.session.SetDropTarget(computeLayout(m.width, m.height).queue)
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{fetchSnapshotCmd(m.session.Store()), tickCmd(m.tick)}
		if m.view == viewLogs {
			cmds = append(cmds, m.refreshLogs())
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case convertDoneMsg:
		m.syncSnapshot()
		return m, nil

	case pickerResultMsg:
		return m.handlePickerResult(msg)

	case logBatchMsg:
		m.handleLogBatch(msg)
		return m, nil
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	if m.snapshot.SuccessOpen {
		return m.renderSuccess()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if msg.Paste {
		return m.handlePaste(msg)
	}

	if m.snapshot.SuccessOpen {
		if key.Matches(msg, m.keys.Confirm, m.keys.Escape) {
			m.session.DismissSuccess()
			m.syncSnapshot()
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.progress = newProgressBar(m.theme)
		m.session.SetTheme(m.ctx, m.theme.Name)
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		if m.view == viewLogs {
			m.view = viewMain
			return m, nil
		}
		m.view = viewLogs
		return m, m.refreshLogs()

	case key.Matches(msg, m.keys.Escape):
		m.view = viewMain
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focus == focusQueue {
			m.focus = focusSettings
		} else {
			m.focus = focusQueue
		}
		return m, nil

	case key.Matches(msg, m.keys.AddFiles):
		return m.openPicker(pickFiles, ""), nil

	case key.Matches(msg, m.keys.Destination):
		return m.openPicker(pickFolder, m.snapshot.Settings.DestinationFolder), nil

	case key.Matches(msg, m.keys.Convert):
		if m.snapshot.Converting {
			// Disabled while a batch runs.
			return m, nil
		}
		return m, convertCmd(m.ctx, m.session)

	case key.Matches(msg, m.keys.Clear):
		_ = m.session.Clear()
		m.syncSnapshot()
		return m, nil
	}

	if m.view != viewMain {
		return m, nil
	}
	if m.focus == focusSettings {
		return m.handleSettingsKey(msg)
	}
	return m.handleQueueKey(msg)
}

// handleQueueKey processes keyboard input for the queue pane.
func (m Model) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Queue)
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.Remove):
		if entry := m.selectedEntry(); entry != nil {
			_ = m.session.Remove(entry.ID)
			m.syncSnapshot()
		}
	}
	return m, nil
}

func (m Model) openPicker(kind pickerKind, initial string) Model {
	m.modal = newPickerModal(kind, initial)
	return m
}

func (m Model) handlePickerResult(msg pickerResultMsg) (tea.Model, tea.Cmd) {
	switch msg.Kind {
	case pickFolder:
		m.session.SetDestination(m.ctx, msg.Value)
	case pickFiles:
		if msg.Value != "" {
			_, _ = m.session.PickFiles(msg.Value)
		}
	}
	m.syncSnapshot()
	return m, nil
}

// syncSnapshot reads the session state immediately after a local action.
func (m *Model) syncSnapshot() {
	if m.session == nil {
		return
	}
	m.applySnapshot(m.session.Snapshot())
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	var previousID string
	if entry := m.selectedEntry(); entry != nil {
		previousID = entry.ID
	}
	m.snapshot = snap
	m.clampSelection(previousID)
}

// renderMain renders header, panes, status line and footer.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderContent() string {
	l := computeLayout(m.width, m.height)
	if m.view == viewLogs {
		return m.renderLogs(m.width, l.queue.Height+heightBelow(l))
	}

	queuePane := m.renderQueuePane(l.queue.Width, l.queue.Height)
	settingsPane := m.renderSettingsPane(l.settings.Width, l.settings.Height)
	if l.settings.X == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, queuePane, settingsPane)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, queuePane, settingsPane)
}

// heightBelow is the extra height the settings pane takes in compact mode.
func heightBelow(l layout) int {
	if l.settings.X == 0 {
		return l.settings.Height
	}
	return 0
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type convertDoneMsg convert.Report

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// convertCmd runs the batch off the UI goroutine. Progress reaches the view
// through the snapshot store on each tick.
func convertCmd(ctx context.Context, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		return convertDoneMsg(s.Convert(ctx))
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	ctx := m.ctx
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
