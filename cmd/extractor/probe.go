package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "List the columns of a source table and the layout columns it lacks",
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().String("table", "", "Source table (default SOURCE_TABLE)")
}

func runProbe(cmd *cobra.Command, args []string) error {
	table, _ := cmd.Flags().GetString("table")
	if table == "" {
		table = cfg.Source.Table
	}

	svc, db, err := newExtractionService(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := svc.ProbeSchema(cmd.Context(), table)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
