package queue

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func entries(paths ...string) []Entry {
	out := make([]Entry, 0, len(paths))
	for _, p := range paths {
		out = append(out, NewEntry(p, nil))
	}
	return out
}

func sized(path string, n int64) Entry {
	return NewEntry(path, &n)
}

func TestMerge_AppendsNewEntriesInIncomingOrder(t *testing.T) {
	got := Merge(entries("/a.png", "/b.png"), entries("/d.png", "/c.png"))
	want := []string{"/a.png", "/b.png", "/d.png", "/c.png"}
	if !reflect.DeepEqual(IDs(got), want) {
		t.Fatalf("Merge order = %v, want %v", IDs(got), want)
	}
}

func TestMerge_ReplacesExistingInPlace(t *testing.T) {
	current := []Entry{sized("/a.png", 1), sized("/b.png", 2), sized("/c.png", 3)}
	incoming := []Entry{sized("/b.png", 20), sized("/new.png", 4)}

	got := Merge(current, incoming)
	want := []string{"/a.png", "/b.png", "/c.png", "/new.png"}
	if !reflect.DeepEqual(IDs(got), want) {
		t.Fatalf("Merge order = %v, want %v", IDs(got), want)
	}
	if got[1].SizeBytes == nil || *got[1].SizeBytes != 20 {
		t.Fatalf("replaced entry size = %v, want 20", got[1].SizeBytes)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	cases := []struct {
		name     string
		current  []Entry
		incoming []Entry
	}{
		{"empty both", nil, nil},
		{"empty current", nil, entries("/a.png", "/b.png")},
		{"overlap", entries("/a.png", "/b.png"), entries("/b.png", "/c.png")},
		{"duplicates in incoming", entries("/a.png"), []Entry{sized("/x.png", 1), sized("/x.png", 2), sized("/a.png", 3)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			once := Merge(tc.current, tc.incoming)
			twice := Merge(once, tc.incoming)
			if !reflect.DeepEqual(once, twice) {
				t.Fatalf("Merge not idempotent:\nonce  %#v\ntwice %#v", once, twice)
			}
		})
	}
}

func TestMerge_DuplicateIncomingLastWinsAtFirstPosition(t *testing.T) {
	got := Merge(nil, []Entry{sized("/x.png", 1), sized("/y.png", 5), sized("/x.png", 2)})
	if !reflect.DeepEqual(IDs(got), []string{"/x.png", "/y.png"}) {
		t.Fatalf("Merge ids = %v", IDs(got))
	}
	if *got[0].SizeBytes != 2 {
		t.Fatalf("duplicate incoming size = %d, want 2", *got[0].SizeBytes)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	current := []Entry{sized("/a.png", 1)}
	incoming := []Entry{sized("/a.png", 9)}
	_ = Merge(current, incoming)
	if *current[0].SizeBytes != 1 {
		t.Fatalf("current was mutated: size = %d", *current[0].SizeBytes)
	}
}

func TestRemove(t *testing.T) {
	current := entries("/a.png", "/b.png", "/c.png")
	got := Remove(current, "/b.png")
	if !reflect.DeepEqual(IDs(got), []string{"/a.png", "/c.png"}) {
		t.Fatalf("Remove = %v", IDs(got))
	}
	if len(current) != 3 {
		t.Fatalf("Remove mutated input")
	}

	same := Remove(current, "/missing.png")
	if !reflect.DeepEqual(IDs(same), IDs(current)) {
		t.Fatalf("Remove of absent id changed queue: %v", IDs(same))
	}
}

func TestRemoveAll(t *testing.T) {
	got := RemoveAll(entries("/a.png", "/b.png", "/c.png"), []string{"/a.png", "/c.png"})
	if !reflect.DeepEqual(IDs(got), []string{"/b.png"}) {
		t.Fatalf("RemoveAll = %v", IDs(got))
	}
}

func TestClear(t *testing.T) {
	if got := Clear(); len(got) != 0 {
		t.Fatalf("Clear returned %d entries", len(got))
	}
}

func TestFromPaths_FiltersUnsupported(t *testing.T) {
	got := FromPaths([]string{"a.png", "b.exe"}, nil, nil)
	if len(got) != 1 || got[0].ID != "a.png" {
		t.Fatalf("FromPaths = %#v, want only a.png", got)
	}
	if got[0].FormatTag != "png" || got[0].DisplayName != "a.png" {
		t.Fatalf("entry classification = %#v", got[0])
	}
}

func TestFromPaths_DedupesAndSkipsEmpty(t *testing.T) {
	got := FromPaths([]string{"/x/a.jpg", "", "  ", "/x/a.jpg", "/x/b.webp"}, nil, nil)
	if !reflect.DeepEqual(IDs(got), []string{"/x/a.jpg", "/x/b.webp"}) {
		t.Fatalf("FromPaths ids = %v", IDs(got))
	}
}

func TestFromPaths_SizeFailureLeavesSizeUnknown(t *testing.T) {
	size := func(path string) (int64, error) {
		if path == "/bad.png" {
			return 0, errors.New("permission denied")
		}
		return 42, nil
	}
	got := FromPaths([]string{"/bad.png", "/good.png"}, size, nil)
	if len(got) != 2 {
		t.Fatalf("FromPaths returned %d entries, want 2", len(got))
	}
	if got[0].SizeBytes != nil {
		t.Fatalf("bad size = %v, want nil", *got[0].SizeBytes)
	}
	if got[1].SizeBytes == nil || *got[1].SizeBytes != 42 {
		t.Fatalf("good size = %v, want 42", got[1].SizeBytes)
	}
}

func TestStatSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	if err := os.WriteFile(path, []byte("12345"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	n, err := StatSize(path)
	if err != nil {
		t.Fatalf("StatSize returned error: %v", err)
	}
	if n != 5 {
		t.Fatalf("StatSize = %d, want 5", n)
	}
	if _, err := StatSize(dir); err == nil {
		t.Fatalf("StatSize(dir) returned nil error")
	}
	if _, err := StatSize(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("StatSize(missing) returned nil error")
	}
}

func TestCountLabel(t *testing.T) {
	if got := CountLabel(1); got != "QUEUE (1 FILE)" {
		t.Fatalf("CountLabel(1) = %q", got)
	}
	if got := CountLabel(0); got != "QUEUE (0 FILES)" {
		t.Fatalf("CountLabel(0) = %q", got)
	}
	if got := CountLabel(7); got != "QUEUE (7 FILES)" {
		t.Fatalf("CountLabel(7) = %q", got)
	}
}
