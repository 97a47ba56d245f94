package convert

import (
	"fmt"
	"strings"

	"github.com/five82/imgqueue/internal/queue"
	"github.com/five82/imgqueue/internal/settings"
)

// Outcome classifies a finished Run.
type Outcome int

const (
	// OutcomeNothingToDo means the queue was empty.
	OutcomeNothingToDo Outcome = iota
	// OutcomeDestinationRequired means no destination folder was set.
	OutcomeDestinationRequired
	// OutcomeBusy means another batch was already running.
	OutcomeBusy
	// OutcomeCompleted means every entry converted.
	OutcomeCompleted
	// OutcomeAborted means the batch stopped at the first failure.
	OutcomeAborted
	// OutcomePartial means every entry was attempted and some failed.
	OutcomePartial
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNothingToDo:
		return "nothing-to-do"
	case OutcomeDestinationRequired:
		return "destination-required"
	case OutcomeBusy:
		return "busy"
	case OutcomeCompleted:
		return "completed"
	case OutcomeAborted:
		return "aborted"
	case OutcomePartial:
		return "partial"
	}
	return "unknown"
}

// Guidance reports whether the outcome only blocked the action.
func (o Outcome) Guidance() bool {
	switch o {
	case OutcomeNothingToDo, OutcomeDestinationRequired, OutcomeBusy:
		return true
	}
	return false
}

// Failure pairs a queue entry with the backend error it produced.
type Failure struct {
	Entry queue.Entry
	Err   error
}

// Report summarizes one Run.
type Report struct {
	BatchID      string
	Outcome      Outcome
	Policy       Policy
	Settings     settings.Settings
	Total        int
	Converted    int
	Skipped      int
	ConvertedIDs []string
	Outputs      []string
	Failures     []Failure
	Destination  string
	FolderOpened bool
}

// Succeeded reports whether the whole queue converted.
func (r Report) Succeeded() bool {
	return r.Outcome == OutcomeCompleted
}

// Tally renders "converted/total".
func (r Report) Tally() string {
	return fmt.Sprintf("%d/%d", r.Converted, r.Total)
}

// FirstError returns the message of the first failure, verbatim.
func (r Report) FirstError() string {
	if len(r.Failures) == 0 || r.Failures[0].Err == nil {
		return ""
	}
	return r.Failures[0].Err.Error()
}

// Status is the one-line status text for the outcome.
func (r Report) Status() string {
	switch r.Outcome {
	case OutcomeNothingToDo:
		return "Add files to the queue first."
	case OutcomeDestinationRequired:
		return "Select a destination folder."
	case OutcomeBusy:
		return "A conversion is already running."
	case OutcomeCompleted:
		return fmt.Sprintf("Conversion finished: %s. %s; %s.", r.Tally(), metadataNote(r.Settings), transparencyNote(r.Settings))
	case OutcomeAborted:
		return fmt.Sprintf("Conversion error: %s (%d of %d converted)", r.FirstError(), r.Converted, r.Total)
	case OutcomePartial:
		names := make([]string, 0, len(r.Failures))
		for _, f := range r.Failures {
			names = append(names, f.Entry.DisplayName)
		}
		return fmt.Sprintf("Conversion error: %d of %d converted; failed: %s. First error: %s",
			r.Converted, r.Total, strings.Join(names, ", "), r.FirstError())
	}
	return ""
}

// SuccessDescription is the success modal body. Empty unless completed.
func (r Report) SuccessDescription() string {
	if r.Outcome != OutcomeCompleted {
		return ""
	}
	return fmt.Sprintf("Conversion completed successfully (%s). Folder: %s", r.Tally(), r.Destination)
}

// QueueAfter returns the queue as it should look after this run: cleared on
// full success, untouched on guidance outcomes and aborts, and without the
// converted entries when failures were collected under ContinueOnFailure.
func (r Report) QueueAfter(current []queue.Entry) []queue.Entry {
	switch r.Outcome {
	case OutcomeCompleted:
		return queue.Clear()
	case OutcomePartial:
		return queue.RemoveAll(current, r.ConvertedIDs)
	}
	return queue.Clone(current)
}

func metadataNote(s settings.Settings) string {
	if s.StripMetadata {
		return "metadata removed"
	}
	return "metadata preserved"
}

func transparencyNote(s settings.Settings) string {
	if s.PreserveTransparency {
		return "transparency preserved"
	}
	return "transparency removed"
}
