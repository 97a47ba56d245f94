// Package app wires the imgqueue components together.
//
// Open loads the TOML config, opens the log file and the SQLite state
// database, restores the saved converter settings and theme, picks the
// conversion backend and builds the session. Run opens an Env and hands
// the session to the terminal UI; the CLI subcommands use Open directly.
package app
