package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/five82/imgqueue/internal/imagefile"
	"github.com/five82/imgqueue/internal/queue"
	"github.com/five82/imgqueue/internal/settings"
)

// Request is one call into the conversion backend. The metadata and
// transparency flags are passed through untouched.
type Request struct {
	InputPath            string
	OutputPath           string
	Format               imagefile.Format
	Quality              int
	StripMetadata        bool
	PreserveTransparency bool
}

// Converter converts a single image and returns the path actually written.
type Converter interface {
	Convert(ctx context.Context, req Request) (string, error)
}

// FolderOpener shows a folder in the system file browser.
type FolderOpener interface {
	Open(ctx context.Context, folder string) error
}

// Policy decides what happens after a conversion fails.
type Policy int

const (
	// AbortOnFailure stops the batch at the first failure.
	AbortOnFailure Policy = iota
	// ContinueOnFailure attempts every entry and reports all failures.
	ContinueOnFailure
)

// ParsePolicy maps config values to a Policy. Empty means AbortOnFailure.
func ParsePolicy(value string) (Policy, error) {
	switch value {
	case "", "abort":
		return AbortOnFailure, nil
	case "continue":
		return ContinueOnFailure, nil
	}
	return AbortOnFailure, fmt.Errorf("unknown failure policy %q (want abort or continue)", value)
}

func (p Policy) String() string {
	if p == ContinueOnFailure {
		return "continue"
	}
	return "abort"
}

// Progress is reported before each entry is converted.
type Progress struct {
	BatchID string
	Index   int // zero-based
	Total   int
	Entry   queue.Entry
}

// Options configure an Orchestrator.
type Options struct {
	Policy     Policy
	Logger     *slog.Logger
	OnProgress func(Progress)
}

// Orchestrator drives one batch at a time through a Converter.
//
// The set of folders already opened lives for as long as the Orchestrator,
// which the application keeps for the whole process.
type Orchestrator struct {
	converter  Converter
	opener     FolderOpener
	policy     Policy
	logger     *slog.Logger
	onProgress func(Progress)

	mu       sync.Mutex
	inFlight bool
	opened   map[string]struct{}
}

// New builds an Orchestrator. opener may be nil.
func New(converter Converter, opener FolderOpener, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{
		converter:  converter,
		opener:     opener,
		policy:     opts.Policy,
		logger:     logger,
		onProgress: opts.OnProgress,
		opened:     make(map[string]struct{}),
	}
}

// Policy returns the configured failure policy.
func (o *Orchestrator) Policy() Policy {
	return o.policy
}

// InFlight reports whether a batch is running.
func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight
}

// Run converts entries sequentially, in order, using s. Guidance outcomes
// (nothing queued, no destination, already running) return without touching
// the backend.
func (o *Orchestrator) Run(ctx context.Context, entries []queue.Entry, s settings.Settings) Report {
	report := Report{
		Total:       len(entries),
		Destination: s.DestinationFolder,
		Policy:      o.policy,
		Settings:    s,
	}
	if len(entries) == 0 {
		report.Outcome = OutcomeNothingToDo
		return report
	}
	if !s.DestinationSet() {
		report.Outcome = OutcomeDestinationRequired
		return report
	}
	if !o.begin() {
		report.Outcome = OutcomeBusy
		return report
	}
	defer o.end()

	report.BatchID = uuid.NewString()
	logger := o.logger.With("batch_id", report.BatchID)
	logger.Info("batch started",
		"entries", len(entries),
		"destination", s.DestinationFolder,
		"format", s.OutputFormat,
		"quality", s.Quality,
		"policy", o.policy.String(),
	)

	for i, entry := range entries {
		if o.onProgress != nil {
			o.onProgress(Progress{BatchID: report.BatchID, Index: i, Total: len(entries), Entry: entry})
		}

		var err error
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else {
			req := requestFor(entry, s)
			var written string
			written, err = o.converter.Convert(ctx, req)
			if err == nil {
				if written == "" {
					written = req.OutputPath
				}
				report.Converted++
				report.ConvertedIDs = append(report.ConvertedIDs, entry.ID)
				report.Outputs = append(report.Outputs, written)
				logger.Debug("entry converted", "input", entry.Path, "output", written)
				continue
			}
		}

		logger.Error("entry failed", "input", entry.Path, "index", i, "error", err)
		report.Failures = append(report.Failures, Failure{Entry: entry, Err: err})
		if o.policy == AbortOnFailure || errors.Is(err, context.Canceled) {
			report.Outcome = OutcomeAborted
			report.Skipped = len(entries) - i - 1
			logger.Warn("batch aborted", "converted", report.Converted, "skipped", report.Skipped)
			return report
		}
	}

	if len(report.Failures) > 0 {
		report.Outcome = OutcomePartial
		logger.Warn("batch finished with failures", "converted", report.Converted, "failed", len(report.Failures))
		return report
	}

	report.Outcome = OutcomeCompleted
	report.FolderOpened = o.openOnce(ctx, s.DestinationFolder, logger)
	logger.Info("batch completed", "converted", report.Converted)
	return report
}

// PlanOutputs computes the output path for every entry without converting.
func PlanOutputs(entries []queue.Entry, s settings.Settings) []string {
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = OutputPath(entry, s)
	}
	return out
}

// OutputPath is where entry is written under s.
func OutputPath(entry queue.Entry, s settings.Settings) string {
	name := imagefile.OutputName(entry.DisplayName, s.OutputFormat)
	return imagefile.JoinPath(s.DestinationFolder, name)
}

func requestFor(entry queue.Entry, s settings.Settings) Request {
	return Request{
		InputPath:            entry.Path,
		OutputPath:           OutputPath(entry, s),
		Format:               s.OutputFormat,
		Quality:              s.Quality,
		StripMetadata:        s.StripMetadata,
		PreserveTransparency: s.PreserveTransparency,
	}
}

func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return false
	}
	o.inFlight = true
	return true
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.inFlight = false
	o.mu.Unlock()
}

// openOnce opens folder unless this Orchestrator already opened it. The
// folder is only marked after a successful open so a failed attempt can be
// retried by the next batch.
func (o *Orchestrator) openOnce(ctx context.Context, folder string, logger *slog.Logger) bool {
	if o.opener == nil || folder == "" {
		return false
	}
	o.mu.Lock()
	if _, done := o.opened[folder]; done {
		o.mu.Unlock()
		return false
	}
	// Reserve before releasing the lock so concurrent callers cannot both open.
	o.opened[folder] = struct{}{}
	o.mu.Unlock()

	if err := o.opener.Open(ctx, folder); err != nil {
		logger.Warn("open destination folder failed", "folder", folder, "error", err)
		o.mu.Lock()
		delete(o.opened, folder)
		o.mu.Unlock()
		return false
	}
	return true
}
