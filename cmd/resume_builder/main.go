// Package main provides the entry point for the resume builder CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_builder",
	Short: "AI-assisted resume builder",
	Long:  "Resume Builder converts uploaded CVs into structured resumes with LLM assistance, stores them per user, and exports polished PDFs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
