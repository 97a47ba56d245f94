// Package codec provides the conversion backends the orchestrator calls:
// a native Go backend and an external command backend.
package codec

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/imgqueue/internal/convert"
)

// ErrUnsupported marks conversions the selected backend cannot perform.
var ErrUnsupported = errors.New("unsupported conversion")

// Options select and configure a backend.
type Options struct {
	// Command is an argv template. Empty selects the native backend.
	Command []string
	// StripMetadataArgs are appended when metadata should be removed.
	StripMetadataArgs []string
	// FlattenArgs are appended when transparency should be removed.
	FlattenArgs []string
	Logger      *slog.Logger
}

// New returns the external command backend when a command is configured,
// otherwise the native backend.
func New(opts Options) (convert.Converter, error) {
	if len(opts.Command) == 0 {
		return NewNative(opts.Logger), nil
	}
	return NewCommand(opts)
}

// UniquePath returns path if nothing exists there yet, otherwise the first
// free "<stem>N<ext>" sibling counting from 1. Siblings keep the separator
// of path so destinations built by imagefile.JoinPath stay consistent.
func UniquePath(path string) string {
	if !exists(path) {
		return path
	}
	dir, sep, base := splitPath(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "image"
	}
	for i := 1; ; i++ {
		candidate := dir + sep + fmt.Sprintf("%s%d%s", stem, i, ext)
		if !exists(candidate) {
			return candidate
		}
	}
}

// splitPath cuts path at its last forward or back slash. A bare name has an
// empty dir and sep.
func splitPath(path string) (dir, sep, base string) {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 {
		return "", "", path
	}
	if i == 0 {
		return "", path[:1], path[1:]
	}
	return path[:i], path[i : i+1], path[i+1:]
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// dirOf is where the host places path, used for the temp file beside it.
func dirOf(path string) string {
	return filepath.Dir(path)
}
