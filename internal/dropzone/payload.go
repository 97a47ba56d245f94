package dropzone

import (
	"net/url"
	"runtime"
	"strings"
)

// ParsePayload splits the text a terminal emulator pastes when files are
// dropped on it. Terminals differ: some quote paths, some backslash-escape
// spaces, some send file:// URIs one per line. All of these are accepted.
func ParsePayload(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)
	flush := func() {
		if started {
			paths = append(paths, normalize(current.String()))
		}
		current.Reset()
		started = false
	}

	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\\' && escapesBackslash():
			escaped = true
			started = true
		case r == '\'' || r == '"':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// escapesBackslash reports whether a backslash in pasted text is an escape
// character rather than a path separator.
func escapesBackslash() bool {
	return runtime.GOOS != "windows"
}

func normalize(raw string) string {
	if !strings.HasPrefix(raw, "file://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw
	}
	return u.Path
}
