// Package queue holds the ordered, de-duplicated list of files waiting for
// conversion. Every operation returns a new slice; inputs are never mutated.
package queue

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/five82/imgqueue/internal/imagefile"
)

// Entry is one file pending conversion. ID equals Path.
type Entry struct {
	ID          string
	Path        string
	DisplayName string
	FormatTag   string
	SizeBytes   *int64
}

// SizeFunc reports the size of the file at path.
type SizeFunc func(path string) (int64, error)

// NewEntry classifies path into an Entry. A nil size leaves SizeBytes unset.
func NewEntry(path string, size *int64) Entry {
	info := imagefile.Classify(path)
	return Entry{
		ID:          path,
		Path:        path,
		DisplayName: info.DisplayName,
		FormatTag:   info.FormatTag,
		SizeBytes:   size,
	}
}

// Merge folds incoming into current. An incoming entry whose ID already
// exists overwrites the existing entry at its position; new IDs are appended
// in incoming order.
func Merge(current, incoming []Entry) []Entry {
	out := make([]Entry, 0, len(current)+len(incoming))
	index := make(map[string]int, len(current)+len(incoming))
	for _, entry := range current {
		if pos, ok := index[entry.ID]; ok {
			out[pos] = entry
			continue
		}
		index[entry.ID] = len(out)
		out = append(out, entry)
	}
	for _, entry := range incoming {
		if pos, ok := index[entry.ID]; ok {
			out[pos] = entry
			continue
		}
		index[entry.ID] = len(out)
		out = append(out, entry)
	}
	return out
}

// Remove returns current without the entry matching id.
func Remove(current []Entry, id string) []Entry {
	out := make([]Entry, 0, len(current))
	for _, entry := range current {
		if entry.ID == id {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// RemoveAll returns current without any entry whose ID is in ids.
func RemoveAll(current []Entry, ids []string) []Entry {
	if len(ids) == 0 {
		return Clone(current)
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make([]Entry, 0, len(current))
	for _, entry := range current {
		if _, ok := drop[entry.ID]; ok {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Clear returns an empty queue.
func Clear() []Entry {
	return []Entry{}
}

// Clone copies entries so callers can hand them out safely.
func Clone(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	dup := make([]Entry, len(entries))
	copy(dup, entries)
	return dup
}

// IDs lists the entry IDs in queue order.
func IDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	return ids
}

// FromPaths turns raw candidate paths into entries. Empty and repeated paths
// are dropped, unsupported extensions are filtered out silently, and a
// failing size lookup only leaves the size unknown.
func FromPaths(paths []string, size SizeFunc, logger *slog.Logger) []Entry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	seen := make(map[string]struct{}, len(paths))
	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		if !imagefile.IsSupported(imagefile.Classify(path).FormatTag) {
			logger.Debug("skipping unsupported file", "path", path)
			continue
		}

		var sizePtr *int64
		if size != nil {
			n, err := size(path)
			if err != nil {
				logger.Warn("file size lookup failed", "path", path, "error", err)
			} else if n >= 0 {
				sizePtr = &n
			}
		}
		entries = append(entries, NewEntry(path, sizePtr))
	}
	return entries
}

// StatSize reads the file size from the filesystem.
func StatSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	return info.Size(), nil
}

// CountLabel renders the queue heading with singular/plural wording.
func CountLabel(n int) string {
	if n == 1 {
		return "QUEUE (1 FILE)"
	}
	return fmt.Sprintf("QUEUE (%d FILES)", n)
}
