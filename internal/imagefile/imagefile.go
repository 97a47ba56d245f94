// Package imagefile classifies filesystem paths into the display name and
// format tag shown in the conversion queue, and derives output file names.
package imagefile

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// NoExtension is the format tag for names without a usable extension.
const NoExtension = "N/A"

// Info is the classification of a single path.
type Info struct {
	DisplayName string
	FormatTag   string
}

var supportedExtensions = []string{"jpg", "jpeg", "png", "webp", "avif"}

var supportedSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(supportedExtensions))
	for _, ext := range supportedExtensions {
		set[ext] = struct{}{}
	}
	return set
}()

// Classify derives the display name and format tag for path. It never fails.
func Classify(path string) Info {
	name := DisplayName(path)
	return Info{DisplayName: name, FormatTag: Extension(name)}
}

// DisplayName returns the final path segment, accepting both / and \ as
// separators. A path without separators is returned unchanged.
func DisplayName(path string) string {
	idx := strings.LastIndexAny(path, `/\`)
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// Extension returns the lowercase extension of name, or NoExtension for
// dotfiles, trailing dots and names without a dot.
func Extension(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot == len(name)-1 {
		return NoExtension
	}
	return strings.ToLower(name[dot+1:])
}

// IsSupported reports whether tag may enter the conversion queue.
func IsSupported(tag string) bool {
	_, ok := supportedSet[tag]
	return ok
}

// SupportedExtensions returns the accepted input extensions in display order.
func SupportedExtensions() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}

// StripExtension removes the last extension from name. Dotfiles are kept whole.
func StripExtension(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return name
	}
	return name[:dot]
}

// OutputName swaps the extension of name for the one of format.
func OutputName(name string, format Format) string {
	return StripExtension(name) + "." + format.Extension()
}

// JoinPath joins folder and name using the separator convention of folder:
// backslash when folder already contains one, forward slash otherwise.
func JoinPath(folder, name string) string {
	sep := "/"
	if strings.Contains(folder, `\`) {
		sep = `\`
	}
	return strings.TrimRight(folder, `/\`) + sep + name
}

// Label renders a format tag for display.
func Label(tag string) string {
	return strings.ToUpper(tag)
}

// FormatSize renders an optional byte count. Unknown sizes render as "--".
func FormatSize(size *int64) string {
	if size == nil || *size < 0 {
		return "--"
	}
	return humanize.IBytes(uint64(*size))
}
