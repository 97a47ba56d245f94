package opener

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestDefaultCommand(t *testing.T) {
	tests := map[string]string{
		"linux":   "xdg-open",
		"freebsd": "xdg-open",
		"darwin":  "open",
		"windows": "explorer",
	}
	for goos, want := range tests {
		if got := DefaultCommand(goos); got[0] != want {
			t.Fatalf("DefaultCommand(%s) = %v, want %s", goos, got, want)
		}
	}
}

func TestOpen_UsesConfiguredCommand(t *testing.T) {
	var got []string
	s := New([]string{"thunar", "--daemon"})
	s.start = func(_ context.Context, name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}

	if err := s.Open(context.Background(), "/out"); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	want := []string{"thunar", "--daemon", "/out"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("argv = %v, want %v", got, want)
	}
}

func TestOpen_WrapsStartFailure(t *testing.T) {
	s := New(nil)
	boom := errors.New("exec: not found")
	s.start = func(context.Context, string, ...string) error { return boom }

	err := s.Open(context.Background(), "/out")
	if !errors.Is(err, boom) {
		t.Fatalf("Open err = %v, want wrapped %v", err, boom)
	}
}

func TestOpen_RejectsEmptyFolder(t *testing.T) {
	s := New(nil)
	s.start = func(context.Context, string, ...string) error {
		t.Fatalf("start called for empty folder")
		return nil
	}
	if err := s.Open(context.Background(), " "); err == nil {
		t.Fatalf("Open(empty) returned nil error")
	}
}
