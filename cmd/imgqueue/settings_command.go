package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/imgqueue/internal/app"
	"github.com/five82/imgqueue/internal/config"
	"github.com/five82/imgqueue/internal/imagefile"
	"github.com/five82/imgqueue/internal/settings"
	"github.com/five82/imgqueue/internal/ui"
)

var settingKeys = []string{"destination", "format", "quality", "strip-metadata", "preserve-transparency", "theme"}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the saved converter settings",
	}

	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	settingsCmd.AddCommand(newSettingsResetCommand(ctx))

	return settingsCmd
}

type settingsView struct {
	settings.Settings
	Theme string `json:"theme"`
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(env *app.Env) error {
				current := env.Session.Snapshot().Settings
				if asJSON {
					return writeJSON(cmd, settingsView{Settings: current, Theme: env.Theme})
				}

				destination := current.DestinationFolder
				if !current.DestinationSet() {
					destination = "(not set)"
				}
				rows := [][]string{
					{"destination", destination},
					{"format", string(current.OutputFormat)},
					{"quality", strconv.Itoa(current.Quality)},
					{"strip-metadata", yesNo(current.StripMetadata)},
					{"preserve-transparency", yesNo(current.PreserveTransparency)},
					{"theme", env.Theme},
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, nil))
				fmt.Fprintf(out, "Stored in %s\n", env.Prefs.Path())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one saved setting",
		Long:  "Change one saved setting. Keys: " + strings.Join(settingKeys, ", ") + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(strings.TrimSpace(args[0]))
			value := strings.TrimSpace(args[1])
			return ctx.withEnv(cmd.Context(), func(env *app.Env) error {
				if err := applySetting(cmd, env, key, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", key)
				return nil
			})
		},
	}
}

func applySetting(cmd *cobra.Command, env *app.Env, key, value string) error {
	ctx := cmd.Context()
	sess := env.Session
	switch key {
	case "destination", "dest":
		folder, err := config.ExpandPath(value)
		if err != nil {
			return fmt.Errorf("resolve destination: %w", err)
		}
		sess.SetDestination(ctx, folder)
	case "format":
		format, err := imagefile.ParseFormat(value)
		if err != nil {
			return err
		}
		sess.SetOutputFormat(ctx, format)
	case "quality":
		quality, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("quality must be a number: %w", err)
		}
		sess.SetQuality(ctx, quality)
	case "strip-metadata":
		strip, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("strip-metadata must be true or false: %w", err)
		}
		sess.SetStripMetadata(ctx, strip)
	case "preserve-transparency":
		preserve, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("preserve-transparency must be true or false: %w", err)
		}
		sess.SetPreserveTransparency(ctx, preserve)
	case "theme":
		names := ui.ThemeNames()
		idx := slices.IndexFunc(names, func(name string) bool { return strings.EqualFold(name, value) })
		if idx < 0 {
			return fmt.Errorf("unknown theme %q (want %s)", value, strings.Join(names, ", "))
		}
		sess.SetTheme(ctx, names[idx])
	default:
		return fmt.Errorf("unknown setting %q (want %s)", key, strings.Join(settingKeys, ", "))
	}
	return nil
}

func newSettingsResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default converter settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(env *app.Env) error {
				settings.Save(cmd.Context(), env.Prefs, settings.Defaults(), env.Logger)
				fmt.Fprintln(cmd.OutOrStdout(), "Settings reset to defaults")
				return nil
			})
		},
	}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
