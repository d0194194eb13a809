package storecheck

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/storecheck/storecheck/internal/data"
)

func init() {
	dataCmd := &cobra.Command{Use: "data", Short: "Inspect and edit test data files"}
	rootCmd.AddCommand(dataCmd)

	dataCmd.AddCommand(&cobra.Command{
		Use:   "show <file>",
		Short: "Print the records of a .json, .csv or .xlsx data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := data.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				if rows == nil {
					rows = []data.Row{}
				}
				return writeJSON(out, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No records")
				return nil
			}
			cols := columns(rows)
			table := tablewriter.NewWriter(out)
			header := make([]any, len(cols))
			for i, c := range cols {
				header[i] = c
			}
			table.Header(header...)
			for _, r := range rows {
				line := make([]string, len(cols))
				for i, c := range cols {
					line[i] = r[c]
				}
				_ = table.Append(line)
			}
			return table.Render()
		},
	})

	dataCmd.AddCommand(&cobra.Command{
		Use:   "sheets <file.xlsx>",
		Short: "List the sheets of a workbook with their row counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := data.Open(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()
			for _, s := range wb.Sheets() {
				n, err := wb.RowCount(s)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", s, n)
			}
			return nil
		},
	})

	dataCmd.AddCommand(&cobra.Command{
		Use:   "get <file.xlsx> <sheet> <row> <col>",
		Short: "Print one cell (0-based row and column)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := cellArgs(args[2], args[3])
			if err != nil {
				return err
			}
			wb, err := data.Open(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()
			v, err := wb.CellData(args[1], row, col)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	})

	dataCmd.AddCommand(&cobra.Command{
		Use:   "set <file.xlsx> <sheet> <row> <col> <value>",
		Short: "Write one cell and save the workbook, creating it when missing",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := cellArgs(args[2], args[3])
			if err != nil {
				return err
			}
			wb, err := data.Open(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()
			return wb.SetCellData(args[1], row, col, args[4])
		},
	})
}

func cellArgs(rowArg, colArg string) (int, int, error) {
	row, err := strconv.Atoi(rowArg)
	if err != nil || row < 0 {
		return 0, 0, fmt.Errorf("invalid row %q", rowArg)
	}
	col, err := strconv.Atoi(colArg)
	if err != nil || col < 0 {
		return 0, 0, fmt.Errorf("invalid column %q", colArg)
	}
	return row, col, nil
}

// columns returns the union of record keys, "title" first when present.
func columns(rows []data.Row) []string {
	seen := map[string]bool{}
	var cols []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		if (cols[i] == "title") != (cols[j] == "title") {
			return cols[i] == "title"
		}
		return cols[i] < cols[j]
	})
	return cols
}
