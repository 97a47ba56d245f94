package imagefile

import (
	"fmt"
	"strings"
)

// Format is a conversion target.
type Format string

const (
	PNG  Format = "png"
	JPG  Format = "jpg"
	WebP Format = "webp"
)

// Formats lists the conversion targets in display order.
func Formats() []Format {
	return []Format{PNG, JPG, WebP}
}

// Valid reports whether f is a known conversion target.
func (f Format) Valid() bool {
	switch f {
	case PNG, JPG, WebP:
		return true
	}
	return false
}

// Extension is the file extension written for f.
func (f Format) Extension() string {
	return string(f)
}

// Lossless reports whether quality has no effect for f.
func (f Format) Lossless() bool {
	return f == PNG
}

// Next cycles through Formats.
func (f Format) Next() Format {
	all := Formats()
	for i, candidate := range all {
		if candidate == f {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Prev cycles through Formats backwards.
func (f Format) Prev() Format {
	all := Formats()
	for i, candidate := range all {
		if candidate == f {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return all[0]
}

// ParseFormat accepts the format tags plus the common "jpeg" alias.
func ParseFormat(value string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "jpeg" {
		v = "jpg"
	}
	f := Format(v)
	if !f.Valid() {
		return "", fmt.Errorf("unsupported output format %q (want png, jpg or webp)", value)
	}
	return f, nil
}
