// Package cmd implements the mpatch command-line interface: a thin cobra
// wrapper around the internal/patch engine, in the same
// flags-plus-PersistentPreRunE shape the teacher project uses for its own
// root command.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Romelium/mpatch/internal/exitcode"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mpatch",
	Short: "Apply context-aware patches to drifted text files",
	Long: `mpatch applies unified diffs, conflict-marker hunks, and diffs
embedded in Markdown fences to files whose line numbers or surrounding
context have drifted since the patch was generated.

Examples:
  mpatch apply changes.diff
  mpatch apply --dry-run --strict changes.diff
  cat changes.diff | mpatch apply -`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Emit debug-level logs")
}

// Execute runs the root command, translating an exitcode.ExitError into the
// matching process exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr exitcode.ExitError
		if asExitError(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		os.Exit(exitcode.Error)
	}
}

func asExitError(err error, target *exitcode.ExitError) bool {
	if ee, ok := err.(exitcode.ExitError); ok {
		*target = ee
		return true
	}
	return false
}
