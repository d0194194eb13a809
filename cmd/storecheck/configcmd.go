package storecheck

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/storecheck/storecheck/internal/config"
	"github.com/storecheck/storecheck/internal/files"
	"github.com/storecheck/storecheck/internal/routes"
)

var (
	cfgOutput    string
	cfgBaseURL   string
	cfgUsername  string
	cfgThreads   int
	cfgTimeout   string
	cfgRateLimit int
	cfgReportDir string
	cfgDataFile  string
	cfgForce     bool
	cfgGitignore bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .storecheck.yml with the test data and run options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".storecheck.yml", "output file path")
	initCmd.Flags().StringVar(&cfgBaseURL, "base-url", routes.BaseURL, "FakeStore API base URL")
	initCmd.Flags().StringVar(&cfgUsername, "username", "mor_2314", "login username (set the password via STORECHECK_PASSWORD)")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 1, "parallel cases per suite")
	initCmd.Flags().StringVar(&cfgTimeout, "timeout", "30s", "request timeout")
	initCmd.Flags().IntVar(&cfgRateLimit, "rate-limit", 0, "requests per second (0 = unlimited)")
	initCmd.Flags().StringVar(&cfgReportDir, "report-dir", "reports", "HTML report directory")
	initCmd.Flags().StringVar(&cfgDataFile, "data", "", "data file for the datadriven suite")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&cfgGitignore, "gitignore", true, "add reports, logs and run caches to .gitignore")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (secrets masked)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc, err := loadConfig(projectRoot())
			if err != nil {
				return err
			}
			if fc.Password != nil && *fc.Password != "" {
				fc.Password = strPtr("********")
			}
			if fc.ZAP != nil && fc.ZAP.APIKey != nil && *fc.ZAP.APIKey != "" {
				z := *fc.ZAP
				z.APIKey = strPtr("********")
				fc.ZAP = &z
			}
			b, err := yaml.Marshal(&fc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cfgCmd.AddCommand(showCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}
	fc := config.FileConfig{
		BaseURL:   strPtr(cfgBaseURL),
		ProductID: intPtr(1),
		Category:  strPtr("electronics"),
		Limit:     intPtr(5),
		Username:  optStrPtr(cfgUsername),
		Threads:   intPtr(cfgThreads),
		Timeout:   optStrPtr(cfgTimeout),
		RateLimit: intPtr(cfgRateLimit),
		ReportDir: optStrPtr(cfgReportDir),
		DataFile:  optStrPtr(cfgDataFile),
	}
	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	if cfgGitignore {
		added, err := files.AppendIgnore(projectRoot(), files.GeneratedIgnores()...)
		if err != nil {
			return fmt.Errorf("update .gitignore: %w", err)
		}
		if len(added) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Added to .gitignore:", strings.Join(added, " "))
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
