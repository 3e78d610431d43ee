// Package cmd implements the command-line interface for corelog. It
// uses the Cobra library to handle commands, flags, and execution, the
// same as the engine this tool's layout is patterned after.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/loglens/corelog/internal/flavor"
)

// Version information (passed from main).
var (
	version string
	commit  string
	date    string
)

// Flag variables for command-line options shared across subcommands.
var (
	flavorFlag string // --flavor: which log dialect to parse as
	configFlag string // --config: optional YAML session-tuning file
)

// rootCmd is the main command for the corelog CLI.
var rootCmd = &cobra.Command{
	Use:   "corelog",
	Short: "Offline log-analysis engine for ComLib/Server/AndroidLogcat corpora",
	Long: `corelog ingests a folder or single file of rotated log output from the
ComLib, Server, or AndroidLogcat flavors and exposes the analytical
command catalogue (task reconstruction, deadlock detection, SIP dialog
correlation, chat-message tracing) as one-shot, scriptable subcommands.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called by main.go to start the CLI.
func Execute(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flavorFlag, "flavor", "f", "comlib",
		"Log flavor to parse as: comlib, server, or android")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "",
		"Optional YAML session-tuning file (archive codecs, file-name override, output prefs)")
}

// parseFlavor maps the --flavor flag's string value to a flavor.Type,
// defaulting to ComLib (the richest command catalogue) on an empty or
// unrecognized value rather than failing the whole invocation.
func parseFlavor(s string) flavor.Type {
	switch s {
	case "server", "Server":
		return flavor.Server
	case "android", "androidlogcat", "AndroidLogcat":
		return flavor.AndroidLogcat
	default:
		return flavor.ComLib
	}
}

// exitf prints an error to stderr and exits non-zero. No subcommand
// calls it: every RunE returns its error to cobra, and Execute reports
// it through log.Fatalf.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
