package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/five82/imgqueue/internal/convert"
)

// Command converts by running an external program once per image. The argv
// template may use {input}, {output}, {quality} and {format}.
type Command struct {
	argv         []string
	stripArgs    []string
	flattenArgs  []string
	logger       *slog.Logger
	lookPath     func(string) (string, error)
	commandMaker func(ctx context.Context, name string, args ...string) *exec.Cmd
}

var _ convert.Converter = (*Command)(nil)

// NewCommand validates the template and builds a Command backend.
func NewCommand(opts Options) (*Command, error) {
	if len(opts.Command) == 0 || strings.TrimSpace(opts.Command[0]) == "" {
		return nil, errors.New("converter command is empty")
	}
	if !containsPlaceholder(opts.Command, "{input}") || !containsPlaceholder(opts.Command, "{output}") {
		return nil, errors.New("converter command must reference {input} and {output}")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Command{
		argv:         append([]string(nil), opts.Command...),
		stripArgs:    append([]string(nil), opts.StripMetadataArgs...),
		flattenArgs:  append([]string(nil), opts.FlattenArgs...),
		logger:       logger,
		lookPath:     exec.LookPath,
		commandMaker: exec.CommandContext,
	}, nil
}

// Convert runs the command for req. The process's stderr becomes part of the
// returned error.
func (c *Command) Convert(ctx context.Context, req convert.Request) (string, error) {
	target := UniquePath(req.OutputPath)
	args := c.Args(req, target)

	bin, err := c.lookPath(args[0])
	if err != nil {
		return "", fmt.Errorf("converter %q not found: %w", args[0], err)
	}

	cmd := c.commandMaker(ctx, bin, args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("running converter", "argv", args)
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%s: %s", err, detail)
		}
		return "", fmt.Errorf("run converter: %w", err)
	}
	if !exists(target) {
		return "", fmt.Errorf("converter produced no output at %s", target)
	}
	return target, nil
}

// Args expands the template for req, writing to target.
func (c *Command) Args(req convert.Request, target string) []string {
	replacer := strings.NewReplacer(
		"{input}", req.InputPath,
		"{output}", target,
		"{quality}", strconv.Itoa(clampQuality(req.Quality)),
		"{format}", req.Format.Extension(),
	)
	args := make([]string, 0, len(c.argv)+len(c.stripArgs)+len(c.flattenArgs))
	outputIdx := -1
	for i, arg := range c.argv {
		if strings.Contains(arg, "{output}") && outputIdx < 0 {
			outputIdx = i
		}
		args = append(args, replacer.Replace(arg))
	}

	var extra []string
	if req.StripMetadata {
		extra = append(extra, c.stripArgs...)
	}
	if !req.PreserveTransparency {
		extra = append(extra, c.flattenArgs...)
	}
	if len(extra) == 0 {
		return args
	}
	// Options go before the output argument, which most tools expect last.
	out := make([]string, 0, len(args)+len(extra))
	out = append(out, args[:outputIdx]...)
	out = append(out, extra...)
	out = append(out, args[outputIdx:]...)
	return out
}

func containsPlaceholder(argv []string, placeholder string) bool {
	for _, arg := range argv {
		if strings.Contains(arg, placeholder) {
			return true
		}
	}
	return false
}
