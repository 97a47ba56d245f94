package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/imgqueue/internal/app"
)

type commandContext struct {
	configFlag *string
	verbose    *bool
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var verbose bool

	ctx := &commandContext{configFlag: &configFlag, verbose: &verbose}

	rootCmd := &cobra.Command{
		Use:           "imgqueue",
		Short:         "Queue images and batch-convert them to png, jpg or webp",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runUI(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror the log to stderr (CLI commands only)")

	rootCmd.AddCommand(newUICommand(ctx))
	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newPlanCommand(ctx))
	rootCmd.AddCommand(newSettingsCommand(ctx))
	rootCmd.AddCommand(newFormatsCommand())

	return rootCmd
}

func newUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive queue (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runUI(cmd.Context())
		},
	}
}

func (c *commandContext) options() app.Options {
	opts := app.Options{}
	if c.configFlag != nil {
		opts.ConfigPath = strings.TrimSpace(*c.configFlag)
	}
	if c.verbose != nil {
		opts.LogStderr = *c.verbose
	}
	return opts
}

func (c *commandContext) runUI(ctx context.Context) error {
	return app.Run(ctx, c.options())
}

// withEnv opens the application environment for one command.
func (c *commandContext) withEnv(ctx context.Context, fn func(*app.Env) error) (err error) {
	env, err := app.Open(ctx, c.options())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.Close())
	}()
	return fn(env)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
