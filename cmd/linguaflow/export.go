package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linguaops/linguaflow/internal/export"
)

func exportCmd() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export <batch-id>",
		Short: "Export the most recent applied estimate for a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			batchID := args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListEstimates(ctx, batchID)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("no applied estimates for batch %s", batchID)
			}
			latest := records[0]

			var content []byte
			switch format {
			case "csv":
				content = []byte(export.ToDelimitedText(latest.Rows, latest.Totals))
			case "xlsx":
				content, err = export.ToWorkbook(latest.Rows, latest.Totals)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
			}

			path := output
			if path == "" {
				path = export.Filename(batchID, format)
			}
			if err := os.WriteFile(path, content, 0600); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			cmd.Printf("wrote %s (estimate %s, applied %s)\n",
				path, latest.ID, latest.AppliedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format (csv, xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: pricing-estimate-<batch>.<ext>)")
	return cmd
}
