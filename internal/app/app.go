package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"github.com/five82/imgqueue/internal/codec"
	"github.com/five82/imgqueue/internal/config"
	"github.com/five82/imgqueue/internal/convert"
	"github.com/five82/imgqueue/internal/kvstore"
	"github.com/five82/imgqueue/internal/logging"
	"github.com/five82/imgqueue/internal/opener"
	"github.com/five82/imgqueue/internal/session"
	"github.com/five82/imgqueue/internal/settings"
	"github.com/five82/imgqueue/internal/state"
	"github.com/five82/imgqueue/internal/ui"
)

// Options configure the imgqueue application.
type Options struct {
	ConfigPath string
	// LogStderr mirrors the log file to stderr. Never set it for the UI.
	LogStderr bool
}

// Env is a fully wired application: config, logger, state database,
// conversion backend and session. Close releases the database.
type Env struct {
	Config    config.Config
	Logger    *slog.Logger
	Prefs     *kvstore.Store
	Converter convert.Converter
	Opener    convert.FolderOpener
	Lock      *flock.Flock
	Session   *session.Session
	Theme     string
}

// Open loads the config and wires every component the commands share.
func Open(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("prepare directories: %w", err)
	}

	outputs := []string{cfg.LogPath()}
	if opts.LogStderr {
		outputs = append(outputs, "stderr")
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	prefs, err := kvstore.OpenDir(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	backend, err := codec.New(codec.Options{
		Command:           cfg.ConverterCommand,
		StripMetadataArgs: cfg.StripMetadataArgs,
		FlattenArgs:       cfg.FlattenArgs,
		Logger:            logger.With("component", "codec"),
	})
	if err != nil {
		_ = prefs.Close()
		return nil, fmt.Errorf("init converter: %w", err)
	}

	current := settings.Load(ctx, prefs, logger)
	theme := settings.LoadTheme(ctx, prefs, ui.DefaultThemeName, logger)

	store := state.NewStore(state.Snapshot{
		Settings: current,
		Status:   session.StatusReady,
		Theme:    theme,
	})

	folders := opener.New(cfg.OpenCommand)
	lock := flock.New(cfg.LockPath())

	sess := session.New(session.Options{
		Store:     store,
		Prefs:     prefs,
		Converter: backend,
		Opener:    folders,
		Policy:    cfg.FailurePolicy,
		Lock:      lock,
		Logger:    logger,
	})

	logger.Debug("imgqueue ready",
		"config", cfg.Path,
		"state_db", prefs.Path(),
		"policy", cfg.FailurePolicy.String(),
		"external_converter", len(cfg.ConverterCommand) > 0,
	)

	return &Env{
		Config:    cfg,
		Logger:    logger,
		Prefs:     prefs,
		Converter: backend,
		Opener:    folders,
		Lock:      lock,
		Session:   sess,
		Theme:     theme,
	}, nil
}

// Close releases the state database.
func (e *Env) Close() error {
	if e == nil || e.Prefs == nil {
		return nil
	}
	return e.Prefs.Close()
}

// Run boots the imgqueue TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	// The terminal belongs to the UI.
	opts.LogStderr = false
	env, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.Close())
	}()

	env.Logger.Info("starting ui")
	return ui.Run(ui.Options{
		Context:   ctx,
		Session:   env.Session,
		ThemeName: env.Theme,
		LogPath:   env.Config.LogPath(),
	})
}
