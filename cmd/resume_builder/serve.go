package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/server"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for authentication, resume CRUD, CV conversion, AI enhancement, and PDF export.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if serveConfigPath != "" {
		fileCfg, err := config.LoadFile(serveConfigPath)
		if err != nil {
			return err
		}
		merged := cfg.Merge(*fileCfg)
		cfg = &merged
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("an LLM API key is required (OPENAI_API_KEY or DEEPSEEK_API_KEY)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}
