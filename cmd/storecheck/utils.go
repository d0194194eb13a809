package storecheck

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/storecheck/storecheck/internal/update"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the storecheck version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "storecheck", buildVersion())
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Update storecheck to the latest release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			latest, err := update.SelfUpdate(buildVersion())
			if err != nil {
				return fmt.Errorf("self update: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated to", latest)
			return nil
		},
	})
}

// buildVersion prefers the compiled-in version, falling back to the VCS
// revision for development builds.
func buildVersion() string {
	v := version
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(v) == 0 {
				v = s.Value
			}
		}
	}
	return v
}

// updateBanner prints a notice when a newer release exists, or performs the
// self update when --self-update is set. It returns true if the binary was
// replaced and the command should stop.
func updateBanner() bool {
	if flagJSON {
		return false
	}
	if !flagNoUpdateCheck {
		if latest, newer, _ := update.Check(version, false); newer && latest != "" {
			_, _ = fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'storecheck update' to upgrade\n", latest)
		}
	}
	if flagSelfUpdate {
		if _, err := update.SelfUpdate(buildVersion()); err == nil {
			_, _ = fmt.Fprintln(os.Stderr, "updated to latest; re-run command")
			return true
		}
	}
	return false
}

func pickString(cli string, fallback string) string {
	if cli != "" {
		return cli
	}
	return fallback
}

func pickInt(cli int, fallback int) int {
	if cli != 0 {
		return cli
	}
	return fallback
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
