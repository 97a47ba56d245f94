// Package session applies user actions to the shared snapshot.
//
// Every method replaces the whole snapshot through state.Store.Apply and
// sets the status line the UI shows for that action.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/five82/imgqueue/internal/convert"
	"github.com/five82/imgqueue/internal/dropzone"
	"github.com/five82/imgqueue/internal/imagefile"
	"github.com/five82/imgqueue/internal/queue"
	"github.com/five82/imgqueue/internal/settings"
	"github.com/five82/imgqueue/internal/state"
)

// ErrBusy is returned when the queue is edited while a batch is running.
var ErrBusy = errors.New("a conversion is already running")

// Status lines.
const (
	StatusReady       = "Select files to start."
	StatusCleared     = "Queue cleared."
	StatusDestination = "Destination folder set."
	StatusConverting  = "Converting files..."
	StatusBusy        = "A conversion is already running."
)

// Locker guards batches across processes. *flock.Flock satisfies it.
type Locker interface {
	TryLock() (bool, error)
	Unlock() error
}

// Options configure a Session.
type Options struct {
	Store     *state.Store
	Prefs     settings.Store
	Converter convert.Converter
	Opener    convert.FolderOpener
	Policy    convert.Policy
	Lock      Locker
	SizeFunc  queue.SizeFunc
	Logger    *slog.Logger
}

// Session owns the queue, settings, status line and success modal.
type Session struct {
	store  *state.Store
	prefs  settings.Store
	orch   *convert.Orchestrator
	lock   Locker
	size   queue.SizeFunc
	logger *slog.Logger

	gateMu sync.Mutex
	gate   *dropzone.Gate
}

// New builds a Session. A nil Store starts from defaults.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := opts.Store
	if store == nil {
		store = state.NewStore(state.Snapshot{Settings: settings.Defaults(), Status: StatusReady})
	}
	size := opts.SizeFunc
	if size == nil {
		size = queue.StatSize
	}
	s := &Session{
		store:  store,
		prefs:  opts.Prefs,
		lock:   opts.Lock,
		size:   size,
		logger: logger,
		gate:   dropzone.NewGate(nil, logger.With("component", "dropzone")),
	}
	s.orch = convert.New(opts.Converter, opts.Opener, convert.Options{
		Policy:     opts.Policy,
		Logger:     logger.With("component", "convert"),
		OnProgress: s.progress,
	})
	return s
}

// Snapshot returns the current state.
func (s *Session) Snapshot() state.Snapshot {
	return s.store.Snapshot()
}

// Store exposes the snapshot store the UI polls.
func (s *Session) Store() *state.Store {
	return s.store
}

// AddPaths classifies paths and merges the supported ones into the queue.
// It returns how many entries were merged.
func (s *Session) AddPaths(paths []string) (int, error) {
	entries := queue.FromPaths(paths, s.size, s.logger)
	if len(entries) == 0 {
		return 0, nil
	}
	var busy bool
	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		if snap.Converting {
			busy = true
			snap.Status = fmt.Sprintf("%s %d file(s) not added.", StatusBusy, len(entries))
			return snap
		}
		snap.Queue = queue.Merge(snap.Queue, entries)
		snap.Status = fmt.Sprintf("%d file(s) added to queue.", len(entries))
		return snap
	})
	if busy {
		s.logger.Info("files not queued while converting", "count", len(entries))
		return 0, ErrBusy
	}
	s.logger.Info("files queued", "count", len(entries))
	return len(entries), nil
}

// PickFiles adds the paths named in picker input. Input may hold several
// quoted paths and glob patterns.
func (s *Session) PickFiles(input string) (int, error) {
	var paths []string
	for _, p := range dropzone.ParsePayload(input) {
		p = expandHome(p)
		if !strings.ContainsAny(p, "*?[") {
			paths = append(paths, p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			s.setStatus(fmt.Sprintf("Error selecting files: %v", err))
			return 0, fmt.Errorf("expand %q: %w", p, err)
		}
		paths = append(paths, matches...)
	}
	return s.AddPaths(paths)
}

// Remove drops the entry with id.
func (s *Session) Remove(id string) error {
	var busy bool
	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		if snap.Converting {
			busy = true
			snap.Status = StatusBusy
			return snap
		}
		snap.Queue = queue.Remove(snap.Queue, id)
		return snap
	})
	if busy {
		return ErrBusy
	}
	return nil
}

// Clear empties the queue.
func (s *Session) Clear() error {
	var busy bool
	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		if snap.Converting {
			busy = true
			snap.Status = StatusBusy
			return snap
		}
		snap.Queue = queue.Clear()
		snap.Status = StatusCleared
		return snap
	})
	if busy {
		return ErrBusy
	}
	return nil
}

// SetDestination sets the destination folder. An empty folder means the
// picker was cancelled and changes nothing.
func (s *Session) SetDestination(ctx context.Context, folder string) {
	folder = expandHome(strings.TrimSpace(folder))
	if folder == "" {
		return
	}
	s.updateSettings(ctx, StatusDestination, func(cur settings.Settings) settings.Settings {
		return cur.WithDestination(folder)
	})
}

// SetOutputFormat changes the output format.
func (s *Session) SetOutputFormat(ctx context.Context, format imagefile.Format) {
	s.updateSettings(ctx, "", func(cur settings.Settings) settings.Settings {
		return cur.WithOutputFormat(format)
	})
}

// SetQuality changes the quality, clamped into range.
func (s *Session) SetQuality(ctx context.Context, quality int) {
	s.updateSettings(ctx, "", func(cur settings.Settings) settings.Settings {
		return cur.WithQuality(quality)
	})
}

// SetStripMetadata changes the metadata flag.
func (s *Session) SetStripMetadata(ctx context.Context, strip bool) {
	s.updateSettings(ctx, "", func(cur settings.Settings) settings.Settings {
		return cur.WithStripMetadata(strip)
	})
}

// SetPreserveTransparency changes the transparency flag.
func (s *Session) SetPreserveTransparency(ctx context.Context, preserve bool) {
	s.updateSettings(ctx, "", func(cur settings.Settings) settings.Settings {
		return cur.WithPreserveTransparency(preserve)
	})
}

// updateSettings applies fn and persists the result. Settings stay editable
// during a batch; the running batch keeps the snapshot it started with.
func (s *Session) updateSettings(ctx context.Context, status string, fn func(settings.Settings) settings.Settings) {
	var (
		next    settings.Settings
		changed bool
	)
	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		next = fn(snap.Settings)
		changed = next != snap.Settings
		snap.Settings = next
		if status != "" {
			snap.Status = status
		}
		return snap
	})
	if changed {
		settings.Save(ctx, s.prefs, next, s.logger)
	}
}

// SetTheme records and persists the UI theme.
func (s *Session) SetTheme(ctx context.Context, name string) {
	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		snap.Theme = name
		return snap
	})
	settings.SaveTheme(ctx, s.prefs, name, s.logger)
}

// DismissSuccess closes the success modal.
func (s *Session) DismissSuccess() {
	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		snap.SuccessOpen = false
		snap.SuccessText = ""
		return snap
	})
}

// SetDropTarget replaces the drop zone's hit tester after a layout change.
func (s *Session) SetDropTarget(target dropzone.HitTester) {
	s.gateMu.Lock()
	s.gate.SetTarget(target)
	s.gateMu.Unlock()
}

// HandleDrag feeds a drag event through the drop zone and queues the paths
// of an accepted drop.
func (s *Session) HandleDrag(ev dropzone.Event) dropzone.Decision {
	s.gateMu.Lock()
	decision := s.gate.Handle(ev)
	active := s.gate.Active()
	s.gateMu.Unlock()

	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		snap.DropActive = active
		return snap
	})
	if decision.Accept {
		if _, err := s.AddPaths(decision.Paths); err != nil {
			s.logger.Info("drop not queued", "paths", len(decision.Paths), "error", err)
		}
	}
	return decision
}

// Convert runs the queue through the backend with the current settings.
// Guidance outcomes only set the status line.
func (s *Session) Convert(ctx context.Context) convert.Report {
	var (
		entries []queue.Entry
		current settings.Settings
		busy    bool
		started bool
	)
	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		entries, current = snap.Queue, snap.Settings
		switch {
		case snap.Converting:
			busy = true
		case len(entries) == 0 || !current.DestinationSet():
		default:
			started = true
			snap.Converting = true
			snap.HasProgress = false
			snap.SuccessOpen = false
			snap.SuccessText = ""
			snap.Status = StatusConverting
		}
		return snap
	})

	if busy {
		return s.finish(convert.Report{Outcome: convert.OutcomeBusy, Total: len(entries), Settings: current}, false)
	}
	if !started {
		// Guidance outcome; the backend is never called.
		return s.finish(s.orch.Run(ctx, entries, current), false)
	}

	if s.lock != nil {
		locked, err := s.lock.TryLock()
		if err != nil || !locked {
			s.logger.Warn("batch lock unavailable", "error", err)
			return s.finish(convert.Report{Outcome: convert.OutcomeBusy, Total: len(entries), Settings: current}, true)
		}
		defer func() {
			if err := s.lock.Unlock(); err != nil {
				s.logger.Warn("release batch lock", "error", err)
			}
		}()
	}

	return s.finish(s.orch.Run(ctx, entries, current), true)
}

func (s *Session) finish(report convert.Report, started bool) convert.Report {
	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		if started {
			snap.Queue = report.QueueAfter(snap.Queue)
			snap.Converting = false
			snap.HasProgress = false
		}
		snap.Status = report.Status()
		snap.LastOutcome = report.Outcome
		snap.HasOutcome = true
		if report.Succeeded() {
			snap.SuccessOpen = true
			snap.SuccessText = report.SuccessDescription()
		}
		return snap
	})
	return report
}

func (s *Session) progress(p convert.Progress) {
	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		snap.Progress = p
		snap.HasProgress = true
		return snap
	})
}

func (s *Session) setStatus(text string) {
	s.store.Apply(func(snap state.Snapshot) state.Snapshot {
		snap.Status = text
		return snap
	})
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
