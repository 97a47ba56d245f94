package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/imgqueue/internal/convert"
)

// progressReporter shows per-file batch progress.
type progressReporter interface {
	Update(convert.Progress)
	Finish()
}

// newProgressReporter draws a bar on terminals and prints one line per file
// everywhere else.
func newProgressReporter(w io.Writer, total int) progressReporter {
	if !isTerminal(w) {
		return lineReporter{w: w}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	return &barReporter{bar: bar}
}

type barReporter struct {
	bar *progressbar.ProgressBar
}

func (r *barReporter) Update(p convert.Progress) {
	r.bar.Describe(p.Entry.DisplayName)
	_ = r.bar.Set(p.Index)
}

func (r *barReporter) Finish() {
	_ = r.bar.Finish()
}

type lineReporter struct {
	w io.Writer
}

func (r lineReporter) Update(p convert.Progress) {
	fmt.Fprintf(r.w, "[%d/%d] %s\n", p.Index+1, p.Total, p.Entry.DisplayName)
}

func (lineReporter) Finish() {}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
