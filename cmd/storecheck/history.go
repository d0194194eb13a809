package storecheck

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/storecheck/storecheck/internal/audit"
)

func init() {
	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List previous runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := audit.NewAuditLog(projectRoot()).LoadHistory()
			if err != nil {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				if records == nil {
					records = []audit.RunRecord{}
				}
				return writeJSON(out, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.Header("#", "When", "Target", "Passed", "Failed", "Skipped", "New", "Duration")
			for i, r := range records {
				_ = table.Append([]string{
					strconv.Itoa(i),
					r.Timestamp.Local().Format("2006-01-02 15:04:05"),
					r.Target,
					strconv.Itoa(r.Passed),
					strconv.Itoa(r.Failed),
					strconv.Itoa(r.Skipped),
					strconv.Itoa(r.NewFailures),
					r.Duration,
				})
			}
			return table.Render()
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "show at most this many runs (0 = all)")

	del := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete a run from the history (index as shown by 'history')",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			if err := audit.NewAuditLog(projectRoot()).DeleteRecord(i); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted run", i)
			return nil
		},
	}
	history.AddCommand(del)
	rootCmd.AddCommand(history)
}
