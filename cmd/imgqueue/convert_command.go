package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/imgqueue/internal/app"
	"github.com/five82/imgqueue/internal/codec"
	"github.com/five82/imgqueue/internal/config"
	"github.com/five82/imgqueue/internal/convert"
	"github.com/five82/imgqueue/internal/imagefile"
	"github.com/five82/imgqueue/internal/queue"
	"github.com/five82/imgqueue/internal/session"
	"github.com/five82/imgqueue/internal/settings"
)

// overrideFlags adjust the saved settings for one command without
// persisting them.
type overrideFlags struct {
	destination string
	format      string
	quality     int
	strip       bool
	preserve    bool
}

func (f *overrideFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.destination, "dest", "d", "", "Destination folder (default: saved setting)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: png, jpg or webp")
	cmd.Flags().IntVarP(&f.quality, "quality", "q", 0, "Quality 1-100 (lossy formats)")
	cmd.Flags().BoolVar(&f.strip, "strip-metadata", true, "Remove EXIF and other metadata")
	cmd.Flags().BoolVar(&f.preserve, "preserve-transparency", true, "Keep alpha where the format supports it")
}

func (f *overrideFlags) apply(cmd *cobra.Command, base settings.Settings) (settings.Settings, error) {
	out := base
	flags := cmd.Flags()
	if flags.Changed("dest") {
		folder, err := config.ExpandPath(f.destination)
		if err != nil {
			return out, fmt.Errorf("resolve destination: %w", err)
		}
		out = out.WithDestination(folder)
	}
	if flags.Changed("format") {
		format, err := imagefile.ParseFormat(f.format)
		if err != nil {
			return out, err
		}
		out = out.WithOutputFormat(format)
	}
	if flags.Changed("quality") {
		out = out.WithQuality(f.quality)
	}
	if flags.Changed("strip-metadata") {
		out = out.WithStripMetadata(f.strip)
	}
	if flags.Changed("preserve-transparency") {
		out = out.WithPreserveTransparency(f.preserve)
	}
	return out, nil
}

// queueFromArgs classifies args the way a drop does and reports how many
// were left out.
func queueFromArgs(env *app.Env, args []string) ([]queue.Entry, int) {
	entries := queue.Merge(nil, queue.FromPaths(args, queue.StatSize, env.Logger))
	return entries, len(args) - len(entries)
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var overrides overrideFlags
	var continueOnError bool
	var openFolder bool

	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert files without opening the UI",
		Long: "Convert files with the saved settings. Flags override the saved " +
			"settings for this run only. Unsupported files are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(env *app.Env) error {
				current, err := overrides.apply(cmd, env.Session.Snapshot().Settings)
				if err != nil {
					return err
				}

				entries, skipped := queueFromArgs(env, args)
				stderr := cmd.ErrOrStderr()
				if skipped > 0 {
					fmt.Fprintf(stderr, "Skipped %d unsupported or duplicate path(s)\n", skipped)
				}

				policy := env.Config.FailurePolicy
				if continueOnError {
					policy = convert.ContinueOnFailure
				}
				var folders convert.FolderOpener
				if openFolder {
					folders = env.Opener
				}

				if len(entries) > 0 && current.DestinationSet() {
					if err := os.MkdirAll(current.DestinationFolder, 0o755); err != nil {
						return fmt.Errorf("create destination: %w", err)
					}
					locked, err := env.Lock.TryLock()
					if err != nil {
						return fmt.Errorf("acquire batch lock: %w", err)
					}
					if !locked {
						return errors.New(session.StatusBusy)
					}
					defer func() { _ = env.Lock.Unlock() }()
				}

				reporter := newProgressReporter(stderr, len(entries))
				orch := convert.New(env.Converter, folders, convert.Options{
					Policy:     policy,
					Logger:     env.Logger.With("component", "convert"),
					OnProgress: reporter.Update,
				})
				report := orch.Run(cmd.Context(), entries, current)
				reporter.Finish()

				out := cmd.OutOrStdout()
				if len(report.Outputs) > 0 {
					rows := make([][]string, 0, len(report.Outputs))
					for _, written := range report.Outputs {
						rows = append(rows, []string{written})
					}
					fmt.Fprintln(out, renderTable([]string{"Written"}, rows, nil))
				}
				if len(report.Failures) > 0 {
					rows := make([][]string, 0, len(report.Failures))
					for _, failure := range report.Failures {
						rows = append(rows, []string{failure.Entry.Path, failure.Err.Error()})
					}
					fmt.Fprintln(out, renderTable([]string{"Failed", "Error"}, rows, nil))
				}

				if !report.Succeeded() {
					return errors.New(report.Status())
				}
				fmt.Fprintln(out, report.Status())
				return nil
			})
		},
	}

	overrides.register(cmd)
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Convert every file and report all failures")
	cmd.Flags().BoolVar(&openFolder, "open", false, "Open the destination folder when the batch succeeds")
	return cmd
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var overrides overrideFlags

	cmd := &cobra.Command{
		Use:   "plan <file>...",
		Short: "Show what convert would write, without converting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(env *app.Env) error {
				current, err := overrides.apply(cmd, env.Session.Snapshot().Settings)
				if err != nil {
					return err
				}
				entries, skipped := queueFromArgs(env, args)
				if len(entries) == 0 {
					return errors.New(convert.Report{Outcome: convert.OutcomeNothingToDo}.Status())
				}
				if !current.DestinationSet() {
					return errors.New(convert.Report{Outcome: convert.OutcomeDestinationRequired}.Status())
				}

				outputs := convert.PlanOutputs(entries, current)
				rows := make([][]string, 0, len(entries))
				for i, entry := range entries {
					rows = append(rows, []string{
						entry.DisplayName,
						imagefile.Label(entry.FormatTag),
						imagefile.FormatSize(entry.SizeBytes),
						codec.UniquePath(outputs[i]),
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(
					[]string{"Source", "Type", "Size", "Output"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				quality := strconv.Itoa(current.Quality)
				if current.OutputFormat.Lossless() {
					quality = "n/a"
				}
				fmt.Fprintf(out, "%d file(s), format %s, quality %s, strip metadata %s, preserve transparency %s\n",
					len(entries), current.OutputFormat, quality,
					yesNo(current.StripMetadata), yesNo(current.PreserveTransparency))
				if skipped > 0 {
					fmt.Fprintf(out, "Skipped %d unsupported or duplicate path(s)\n", skipped)
				}
				return nil
			})
		},
	}

	overrides.register(cmd)
	return cmd
}
