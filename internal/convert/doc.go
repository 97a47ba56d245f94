// Package convert runs a batch of queued images through a conversion backend.
//
// # Overview
//
// An Orchestrator takes the current queue and settings and calls the backend
// once per entry, strictly one at a time and in queue order. Sequential
// processing keeps failure attribution exact: the report names the entry
// that failed and how many converted before it.
//
// # Preconditions
//
// Run checks, in order:
//
//  1. The queue is non-empty (OutcomeNothingToDo otherwise)
//  2. A destination folder is set (OutcomeDestinationRequired otherwise)
//  3. No other batch is in flight (OutcomeBusy otherwise)
//
// These are guidance outcomes. They never touch the backend and callers
// leave the queue as it is.
//
// # Failure Policy
//
// AbortOnFailure (the default) stops at the first failing entry. With a
// failure on entry k of N the report carries k-1 conversions, the remaining
// N-k entries are never attempted, and QueueAfter keeps all N entries.
//
// ContinueOnFailure attempts every entry, collects all failures and drops
// only the converted entries from the queue.
//
// # Side Effects
//
// After a fully successful batch the destination folder is opened through
// the FolderOpener, at most once per folder for the lifetime of the
// Orchestrator. Open failures are logged and do not change the outcome.
//
// # Output Naming
//
// The output name replaces the input extension with the target format and
// is joined onto the destination using that folder's own separator style.
// The backend may pick a different final name when the target exists.
package convert
