package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-preview"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lunk",
		Short: "lunk - a synchronous reactive event-graph engine",
		Long: `lunk drives Cells and Links through an EventGraph: write a cell inside
an event scope, and every dependent link activates in dependency order,
exactly once per pass, even across cycles.

This binary is a demo and inspection harness for the engine, not the
engine itself — see pkg/reactor and pkg/anim for the library.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newDemoCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
