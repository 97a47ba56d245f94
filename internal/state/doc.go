// Package state provides thread-safe session state for imgqueue.
//
// # Overview
//
// The Store holds one Snapshot: the queue, the converter settings, the
// status line, the in-flight flag and progress of a running batch, and the
// success modal. The session controller writes it; the UI reads it on every
// tick.
//
// # Architecture
//
//	Writer (session):              Reader (UI):
//	┌──────────────────┐          ┌──────────────────┐
//	│ AddPaths()       │          │ tick             │
//	│ Convert()        │          │   ↓              │
//	│   ↓              │          │ store.Snapshot() │
//	│ store.Apply(fn)  │─────────→│   ↓              │
//	│                  │ (mutex)  │ render           │
//	└──────────────────┘          └──────────────────┘
//
// A running batch reports progress from a Bubble Tea command goroutine while
// the UI keeps reading, so access goes through a sync.RWMutex.
//
// # Update Semantics
//
// Apply hands fn a private copy of the snapshot and stores whatever fn
// returns as the new value:
//
//	store.Apply(func(s state.Snapshot) state.Snapshot {
//		s.Queue = queue.Remove(s.Queue, id)
//		s.Status = "..."
//		return s
//	})
//
// There is no field-level setter. Every change is a whole-value replacement,
// so a reader sees either the state before a change or after it.
//
// # Copying
//
// Both Apply and Snapshot clone the queue slice, so neither the writer nor
// any reader can alias the stored entries.
//
// # Testing Considerations
//
// The zero Store is ready to use and returns an empty Snapshot. NewStore
// seeds an initial value, typically the loaded settings and theme.
package state
