package cmd

import (
	"fmt"
	"os"

	"github.com/F-O-T/montte-core/cmd/monttecalc/config"
	"github.com/F-O-T/montte-core/internal/dedup"
	"github.com/F-O-T/montte-core/internal/parsers"
	"github.com/F-O-T/montte-core/internal/renderer"
	"github.com/F-O-T/montte-core/pkg/logger"

	"github.com/spf13/cobra"
)

// Flags for the dedupe command
var (
	candidatesFile      string
	existingFile        string
	dedupeToleranceDays int
	dedupeThreshold     float64
	dedupeOutputFormat  string
	dedupeOutputFile    string
)

// dedupeCmd represents the dedupe command
var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Flag likely-duplicate transactions in an import file",
	Long: `Dedupe scores each row of an imported statement file against existing
transactions and flags likely duplicates. The score weighs exact amount
matches, date proximity and description similarity.

This command requires:
- A candidates file (CSV rows being imported)
- An existing-transactions file (CSV of already stored transactions)

Examples:
  # Basic duplicate detection
  monttecalc dedupe --candidates-file import.csv --existing-file existing.csv

  # Looser date matching with JSON output
  monttecalc dedupe --candidates-file import.csv --existing-file existing.csv \
    --date-tolerance 2 --output-format json

  # CSV report written to a file
  monttecalc dedupe --candidates-file import.csv --existing-file existing.csv \
    --output-format csv --output-file report.csv`,

	PreRunE: validateDedupeFlags,
	RunE:    runDedupe,
}

func init() {
	rootCmd.AddCommand(dedupeCmd)

	dedupeCmd.Flags().StringVarP(&candidatesFile, "candidates-file", "c", "", "path to candidate transactions CSV file (required)")
	dedupeCmd.Flags().StringVarP(&existingFile, "existing-file", "e", "", "path to existing transactions CSV file (required)")

	dedupeCmd.Flags().IntVarP(&dedupeToleranceDays, "date-tolerance", "d", 1, "date matching tolerance in days")
	dedupeCmd.Flags().Float64VarP(&dedupeThreshold, "threshold", "t", 0.8, "duplicate verdict threshold (0.0-1.0)")

	dedupeCmd.Flags().StringVarP(&dedupeOutputFormat, "output-format", "f", "console", "output format: console, json, csv")
	dedupeCmd.Flags().StringVarP(&dedupeOutputFile, "output-file", "o", "", "output file path (default: stdout)")

	dedupeCmd.MarkFlagRequired("candidates-file")
	dedupeCmd.MarkFlagRequired("existing-file")
}

// validateDedupeFlags validates flag combinations before running
func validateDedupeFlags(cmd *cobra.Command, args []string) error {
	if !renderer.OutputFormat(dedupeOutputFormat).IsValid() {
		return fmt.Errorf("invalid output format '%s': must be console, json or csv", dedupeOutputFormat)
	}

	return nil
}

// runDedupe executes the dedupe command
func runDedupe(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	log = log.WithComponent("dedupe")

	scorerConfig, err := config.CreateScorerConfig(dedupeToleranceDays, dedupeThreshold)
	if err != nil {
		return err
	}

	parser := parsers.NewTransactionParser(nil, log)

	candidates, err := parser.ParseFile(candidatesFile)
	if err != nil {
		return err
	}

	existing, err := parser.ParseFile(existingFile)
	if err != nil {
		return err
	}

	log.WithFields(logger.Fields{
		"candidates": len(candidates),
		"existing":   len(existing),
		"config":     scorerConfig.String(),
	}).Debug("running duplicate detection")

	detector := dedup.NewDetector(scorerConfig)
	result, err := detector.Detect(candidates, existing)
	if err != nil {
		return err
	}

	return writeDedupeOutput(result)
}

// writeDedupeOutput renders the detection result in the requested format
func writeDedupeOutput(result *dedup.DetectionResult) error {
	out := os.Stdout
	if dedupeOutputFile != "" {
		file, err := os.Create(dedupeOutputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	r := renderer.NewRenderer(renderer.LocalePTBR)

	switch renderer.OutputFormat(dedupeOutputFormat) {
	case renderer.FormatJSON:
		return r.WriteDetectionJSON(out, result)
	case renderer.FormatCSV:
		return r.WriteDetectionCSV(out, result)
	default:
		return r.WriteDetectionConsole(out, result)
	}
}
