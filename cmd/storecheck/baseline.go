package storecheck

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storecheck/storecheck/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the baseline of known failures",
	}

	var file string
	update := &cobra.Command{
		Use:   "update",
		Short: "Record the failures of the last run as known",
		RunE: func(cmd *cobra.Command, _ []string) error {
			last, err := loadLastRun(projectRoot())
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(file, last.Results); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Baseline updated.")
			return nil
		},
	}
	update.Flags().StringVar(&file, "file", DefaultBaselineFile, "baseline file")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
