package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize meeting transcripts with a generative model",
	Long: `Summarize a meeting transcript from the command line.

Uses the same configuration as the server: config.yaml in the working
directory, ./config or ~/.summarizer, with SUMMARIZER_* and GEMINI_API_KEY
environment overrides.

Quick Start:
  summarize run --file meeting.txt
  summarize run --file meeting.txt --refine "Only list action items" --output yaml`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "summarize %s\n", rootCmd.Version)
	},
}

func init() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.AddCommand(versionCmd)
}
