package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/extraction"
	"github.com/jonathan/resume-builder/internal/formatting"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/render"
)

var (
	convertOut        string
	convertPDF        string
	convertConfigPath string
	convertVerbose    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <cv-file>",
	Short: "Convert a CV file into a structured resume",
	Long: `Extract text from a PDF, DOC, or DOCX file, convert it to a structured
resume with the configured LLM provider, and print the result as JSON.
When the provider is unavailable the command still produces a minimal
resume built from text heuristics.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "Write resume JSON to a file instead of stdout")
	convertCmd.Flags().StringVar(&convertPDF, "pdf", "", "Also export the resume as a PDF to this path")
	convertCmd.Flags().StringVar(&convertConfigPath, "config", "", "Path to JSON config file")
	convertCmd.Flags().BoolVarP(&convertVerbose, "verbose", "v", false, "Print conversion details to stderr")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if convertConfigPath != "" {
		fileCfg, err := config.LoadFile(convertConfigPath)
		if err != nil {
			return err
		}
		merged := cfg.Merge(*fileCfg)
		cfg = &merged
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("an LLM API key is required (OPENAI_API_KEY or DEEPSEEK_API_KEY)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	llmConfig := llm.ConfigForProvider(llm.Provider(cfg.Provider), cfg.APIKey)
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(cfg.Model)
	}
	if cfg.LLMBaseURL != "" {
		llmConfig = llmConfig.WithBaseURL(cfg.LLMBaseURL)
	}
	client, err := llm.NewClient(llmConfig)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stderr)

	text := extraction.ExtractText(filepath.Base(path), mimeTypeForFile(path), data)
	if convertVerbose {
		printer.PrintExtractedText(text)
	}

	result := formatting.NewConverter(client).Convert(cmd.Context(), text)
	if result.Degraded {
		printer.PrintDegraded(result.Err)
	}
	if convertVerbose {
		printer.PrintResume(result.Resume)
		printer.PrintExperience(result.Resume.Experience)
		printer.PrintSkills(result.Resume.Skills)
	}

	encoded, err := json.MarshalIndent(result.Resume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode resume: %w", err)
	}

	if convertOut != "" {
		if err := os.WriteFile(convertOut, encoded, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", convertOut, err)
		}
	} else {
		fmt.Println(string(encoded))
	}

	if convertPDF != "" {
		renderer := render.NewChromeRenderer(cfg.ChromePath)
		pdf, err := render.PDF(context.Background(), renderer, result.Resume)
		if err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
		if err := os.WriteFile(convertPDF, pdf, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", convertPDF, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", convertPDF)
	}
	return nil
}

// mimeTypeForFile maps a file extension to the upload MIME types the
// extractor understands.
func mimeTypeForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extraction.MIMEPDF
	case ".docx":
		return extraction.MIMEDocx
	case ".doc":
		return extraction.MIMEDoc
	default:
		return ""
	}
}
