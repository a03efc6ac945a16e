// Package main provides the entry point for the Resume Analyzer HTTP API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "resume_analyzer",
		Short:        "Resume Analyzer HTTP API Server",
		Long:         "Resume Analyzer extracts text from uploaded résumés, finds skills and named entities, and scores skill sets against a fixed category taxonomy.",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newServeCmd(), newExtractCmd(), newAnalyzeCmd())
	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
