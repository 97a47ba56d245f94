package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/imgqueue/internal/convert"
)

// Config holds the imgqueue application settings. Converter settings chosen
// in the UI live in the state database, not here.
type Config struct {
	Path              string
	StateDir          string
	LogDir            string
	LogLevel          string
	LogFormat         string
	FailurePolicy     convert.Policy
	ConverterCommand  []string
	StripMetadataArgs []string
	FlattenArgs       []string
	OpenCommand       []string
}

const (
	defaultConfigPath = "~/.config/imgqueue/config.toml"
	defaultStateDir   = "~/.local/share/imgqueue"
	defaultLogDir     = "~/.local/share/imgqueue/logs"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
	lockFileName      = "convert.lock"
)

type fileConfig struct {
	StateDir          string   `toml:"state_dir"`
	LogDir            string   `toml:"log_dir"`
	LogLevel          string   `toml:"log_level"`
	LogFormat         string   `toml:"log_format"`
	FailurePolicy     string   `toml:"failure_policy"`
	ConverterCommand  []string `toml:"converter_command"`
	StripMetadataArgs []string `toml:"strip_metadata_args"`
	FlattenArgs       []string `toml:"flatten_args"`
	OpenCommand       []string `toml:"open_command"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		StateDir:  mustExpand(defaultStateDir),
		LogDir:    mustExpand(defaultLogDir),
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
}

// Load locates and parses the imgqueue config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.Path = resolved

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if dir := strings.TrimSpace(raw.StateDir); dir != "" {
		cfg.StateDir = mustExpand(dir)
	}
	if dir := strings.TrimSpace(raw.LogDir); dir != "" {
		cfg.LogDir = mustExpand(dir)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if format := strings.TrimSpace(raw.LogFormat); format != "" {
		cfg.LogFormat = strings.ToLower(format)
	}

	policy, err := convert.ParsePolicy(strings.ToLower(strings.TrimSpace(raw.FailurePolicy)))
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.FailurePolicy = policy

	cfg.ConverterCommand = trimArgs(raw.ConverterCommand)
	cfg.StripMetadataArgs = trimArgs(raw.StripMetadataArgs)
	cfg.FlattenArgs = trimArgs(raw.FlattenArgs)
	cfg.OpenCommand = trimArgs(raw.OpenCommand)

	return cfg, nil
}

// LogPath returns the path to the imgqueue log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/imgqueue.log")
	}
	return filepath.Join(c.LogDir, "imgqueue.log")
}

// LockPath returns the cross-process batch lock file.
func (c Config) LockPath() string {
	if strings.TrimSpace(c.StateDir) == "" {
		return mustExpand(defaultStateDir + "/" + lockFileName)
	}
	return filepath.Join(c.StateDir, lockFileName)
}

// EnsureDirs creates the state and log directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.StateDir, c.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath expands a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func trimArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
