// Package opener shows folders in the desktop file browser.
package opener

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// System opens folders with the platform's default handler or a configured
// command. The folder path is appended as the last argument.
type System struct {
	argv  []string
	start func(ctx context.Context, name string, args ...string) error
}

// New builds a System opener. An empty command selects the platform default.
func New(command []string) *System {
	argv := append([]string(nil), command...)
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		argv = DefaultCommand(runtime.GOOS)
	}
	return &System{argv: argv, start: startDetached}
}

// DefaultCommand returns the folder-open program for goos.
func DefaultCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"explorer"}
	default:
		return []string{"xdg-open"}
	}
}

// Command returns the argv used for folder.
func (s *System) Command(folder string) []string {
	out := make([]string, 0, len(s.argv)+1)
	out = append(out, s.argv...)
	return append(out, folder)
}

// Open launches the file browser for folder without waiting for it to exit.
func (s *System) Open(ctx context.Context, folder string) error {
	if strings.TrimSpace(folder) == "" {
		return errors.New("folder is empty")
	}
	argv := s.Command(folder)
	if err := s.start(ctx, argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("open %s: %w", folder, err)
	}
	return nil
}

func startDetached(_ context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
