package main

import (
	"github.com/spf13/cobra"

	"github.com/linguaops/linguaflow/internal/cli"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <batch-id>",
		Short: "List applied estimates for a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListEstimates(ctx, args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.Println("no applied estimates")
				return nil
			}

			for _, r := range records {
				cmd.Printf("%s  %s  %d rows  %s total %.2f\n",
					r.AppliedAt.Format("2006-01-02 15:04"),
					r.ID,
					len(r.Rows),
					cli.SubtleStyle.Render(r.Summary.PrimaryLanguage),
					r.Totals.EstimatedTotal)
			}
			return nil
		},
	}
}
