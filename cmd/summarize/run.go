package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/config"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/logging"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/models"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers/factory"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/services"
)

var (
	transcriptFile string
	instruction    string
	refinements    []string
	outputFormat   string
)

// Replaced in tests.
var newProvider = func(cfg config.ProviderConfig) (providers.Provider, error) {
	return factory.CreateProvider(cfg)
}

type runOptions struct {
	Instruction string
	Refinements []string
	Format      string
}

type runResult struct {
	SessionID   string                   `json:"session_id" yaml:"session_id"`
	Summary     models.NormalizedSummary `json:"summary" yaml:"summary"`
	Refinements []refinementResult       `json:"refinements,omitempty" yaml:"refinements,omitempty"`
}

type refinementResult struct {
	Prompt  string                   `json:"prompt" yaml:"prompt"`
	Summary models.NormalizedSummary `json:"summary" yaml:"summary"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Summarize a transcript file",
	Long: `Summarize a transcript file, then apply each --refine instruction in order
on the same conversation. Use --file - to read the transcript from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger := logging.NewWithOutput(cfg.Log, cmd.ErrOrStderr())

		transcript, err := readTranscript(transcriptFile, cmd.InOrStdin())
		if err != nil {
			return err
		}

		return runSummarize(cmd.Context(), cfg, logger, transcript, cmd.OutOrStdout(), runOptions{
			Instruction: instruction,
			Refinements: refinements,
			Format:      outputFormat,
		})
	},
}

func init() {
	runCmd.Flags().StringVarP(&transcriptFile, "file", "f", "", "Transcript file to summarize (- for stdin)")
	runCmd.Flags().StringVarP(&instruction, "instruction", "i", "", "Custom summarization instruction")
	runCmd.Flags().StringArrayVarP(&refinements, "refine", "r", nil, "Follow-up instruction (repeatable)")
	runCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json or yaml")
	_ = runCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(runCmd)
}

func readTranscript(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	return string(data), nil
}

func runSummarize(ctx context.Context, cfg *config.Config, logger *logrus.Logger, transcript string, out io.Writer, opts runOptions) error {
	format := strings.ToLower(opts.Format)
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}

	provider, err := newProvider(cfg.Provider)
	if err != nil {
		return err
	}
	if err := provider.ValidateConfig(); err != nil {
		return fmt.Errorf("%w: %v", services.ErrProviderNotConfigured, err)
	}

	svc := services.NewServices(cfg, provider, logger)

	started, err := svc.Summary.StartSession(ctx, transcript, opts.Instruction)
	if err != nil {
		return err
	}

	result := runResult{
		SessionID: started.SessionID,
		Summary:   started.Summary,
	}
	for _, prompt := range opts.Refinements {
		refined, err := svc.Summary.Refine(ctx, started.SessionID, prompt)
		if err != nil {
			return fmt.Errorf("refinement %q: %w", prompt, err)
		}
		result.Refinements = append(result.Refinements, refinementResult{
			Prompt:  prompt,
			Summary: refined.Summary,
		})
	}

	return writeResult(out, result, format)
}

func writeResult(out io.Writer, result runResult, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(result)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
