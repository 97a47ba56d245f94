// Command imgqueue queues image files and converts them in one batch.
//
// Without a subcommand it opens the terminal UI. The convert, plan and
// settings subcommands share the saved settings and the batch lock with
// the UI, so a CLI batch and a UI batch never run at once.
package main
