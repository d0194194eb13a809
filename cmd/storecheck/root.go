package storecheck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/storecheck/storecheck/internal/config"
	"github.com/storecheck/storecheck/internal/logging"
)

var (
	flagConfig        string
	flagJSON          bool
	flagThreads       int
	flagNoColor       bool
	flagLogLevel      string
	flagNoUpdateCheck bool
	flagSelfUpdate    bool

	version = "0.1.0"

	// osExit is replaced in tests.
	osExit = os.Exit
)

// rootCmd is the base Cobra command for the storecheck CLI.
var rootCmd = &cobra.Command{
	Use:           "storecheck",
	Short:         "Functional and security checks for the FakeStore API",
	Long:          "storecheck runs the FakeStore API test suites, writes an HTML execution report and can drive an OWASP ZAP active scan of the same service.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the storecheck CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		osExit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default .storecheck.yml, then ~/.config/storecheck/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "parallel cases per suite (0 = config, 1 = sequential, -1 = GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.PersistentFlags().BoolVar(&flagSelfUpdate, "self-update", false, "update storecheck to the latest release")
}

// loadConfig resolves configuration with precedence --config > local >
// global, then applies environment overrides.
func loadConfig(root string) (config.FileConfig, error) {
	var gcfg, lcfg config.FileConfig
	c, err := config.LoadGlobal()
	switch {
	case err == nil:
		gcfg = c
	case !errors.Is(err, config.ErrNoGlobalConfig) && !errors.Is(err, config.ErrNoConfigDir):
		return lcfg, fmt.Errorf("load global config: %w", err)
	}
	if flagConfig != "" {
		c, err := config.LoadFile(flagConfig)
		if err != nil {
			return lcfg, fmt.Errorf("load config %s: %w", flagConfig, err)
		}
		lcfg = c
	} else {
		c, err := config.LoadLocal(root)
		switch {
		case err == nil:
			lcfg = c
		case !errors.Is(err, config.ErrNoLocalConfig):
			return lcfg, fmt.Errorf("load local config: %w", err)
		}
	}
	fc := lcfg.Merge(gcfg)
	fc.ApplyEnv()
	return fc, nil
}

// newLogger builds the run logger: request/response log file plus warnings
// on stderr.
func newLogger(fc config.FileConfig) (*zap.Logger, error) {
	level := flagLogLevel
	if level == "" {
		level = fc.Property("log_level")
	}
	file := fc.Property("log_file")
	if file == "" {
		file = logging.DefaultFile
	}
	return logging.New(logging.Options{
		Level:   level,
		File:    file,
		Console: level == "debug",
		JSON:    flagJSON,
		NoColor: noColor(),
	})
}

// noColor disables ANSI output for --no-color, NO_COLOR and non-terminals.
func noColor() bool {
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

// isInteractive reports whether progress output can be drawn on stderr.
func isInteractive() bool {
	return !flagJSON && term.IsTerminal(int(os.Stderr.Fd()))
}

func projectRoot() string {
	abs, err := filepath.Abs(".")
	if err != nil {
		return "."
	}
	return abs
}
