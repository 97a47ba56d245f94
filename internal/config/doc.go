// Package config loads the imgqueue TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/imgqueue/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/imgqueue/config.toml
//   - State directory: ~/.local/share/imgqueue (settings database, batch lock)
//   - Log directory: ~/.local/share/imgqueue/logs
//   - Log level/format: info/text
//   - Failure policy: abort
//
// # TOML Format
//
//	state_dir = "~/.local/share/imgqueue"
//	log_dir = "~/.local/share/imgqueue/logs"
//	log_level = "info"
//	log_format = "text"
//	failure_policy = "abort"
//	converter_command = ["magick", "{input}", "-quality", "{quality}", "{output}"]
//	strip_metadata_args = ["-strip"]
//	flatten_args = ["-background", "white", "-alpha", "remove"]
//	open_command = ["xdg-open"]
//
// Every field is optional. Without converter_command the built-in encoder
// is used; without open_command the platform default file browser is used.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, TOML
// parse errors and unknown failure policies. A missing file is not an error.
//
// Converter settings edited in the UI (destination, format, quality and
// the two flags) are not part of this file; they persist in the state
// database under the state directory.
package config
