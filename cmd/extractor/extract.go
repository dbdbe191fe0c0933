package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"invoice-extractor/internal/classification"
	"invoice-extractor/internal/export"
	"invoice-extractor/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract one table into canonical invoice records",
	Long: `Extract reads the invoice table, normalizes every row and writes the batch
(invoices, diagnostics and summary) as JSON or an XLSX workbook.

Interrupting the run writes the invoices processed so far, marked as stopped.`,
	Example: `  # All invoices as JSON on stdout
  extractor extract

  # Received invoices into a workbook
  extractor extract --direction received --format xlsx --output received.xlsx`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("table", "", "Source table (default SOURCE_TABLE)")
	extractCmd.Flags().String("direction", "", "Only issued, received or unknown invoices")
	extractCmd.Flags().String("format", export.FormatJSON, "Output format: json or xlsx")
	extractCmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	table, _ := cmd.Flags().GetString("table")
	directionStr, _ := cmd.Flags().GetString("direction")
	formatStr, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if table == "" {
		table = cfg.Source.Table
	}
	direction, err := classification.ParseDirection(directionStr)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	if format == export.FormatXLSX && output == "-" {
		return fmt.Errorf("xlsx output needs --output")
	}

	svc, db, err := newExtractionService(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := svc.Extract(ctx, table, direction)
	if err != nil {
		return err
	}
	if result.Stopped {
		log.Warn().Int("invoices", result.Summary.Invoices).Msg("Extraction stopped early, writing partial batch")
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, format, result); err != nil {
		return err
	}

	log.Info().
		Str("table", table).
		Str("format", format).
		Str("output", output).
		Int("invoices", result.Summary.Invoices).
		Int("diagnostics", result.Summary.Diagnostics).
		Msg("Batch written")
	return nil
}
