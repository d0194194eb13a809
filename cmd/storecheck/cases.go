package storecheck

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/storecheck/storecheck/internal/engine"
	"github.com/storecheck/storecheck/internal/suite"
)

type caseInfo struct {
	ID       string `json:"id"`
	Suite    string `json:"suite"`
	Name     string `json:"name"`
	Group    string `json:"group,omitempty"`
	Priority int    `json:"priority"`
}

func init() {
	var run, skip, dataFile string
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "List the test cases a run would execute",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := projectRoot()
			fc, err := loadConfig(root)
			if err != nil {
				return err
			}
			cfg := engine.Config{
				Root:     root,
				File:     fc,
				Run:      suite.SplitPatterns(run),
				Skip:     suite.SplitPatterns(skip),
				DataFile: dataFile,
			}
			cases, _, err := engine.Cases(cfg, engine.NewClient(cfg, ""))
			if err != nil {
				return err
			}
			infos := make([]caseInfo, 0, len(cases))
			for _, c := range cases {
				infos = append(infos, caseInfo{ID: c.ID(), Suite: c.Suite, Name: c.Name, Group: c.Group, Priority: c.Priority})
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return writeJSON(out, infos)
			}
			if len(infos) == 0 {
				fmt.Fprintln(out, "No test cases selected")
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.Header("Case", "Group", "Priority")
			for _, c := range infos {
				_ = table.Append([]string{c.ID, c.Group, fmt.Sprint(c.Priority)})
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&run, "run", "", "comma-separated suite/name globs to include")
	cmd.Flags().StringVar(&skip, "skip", "", "comma-separated suite/name globs to exclude")
	cmd.Flags().StringVar(&dataFile, "data", "", "data file for the datadriven suite")
	rootCmd.AddCommand(cmd)
}
