package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoLocalConfig is returned by LoadLocal when no config file exists in the root.
var ErrNoLocalConfig = errors.New("no local config")

// ErrNoGlobalConfig is returned by LoadGlobal when no global config file exists.
var ErrNoGlobalConfig = errors.New("no global config")

// ErrNoConfigDir is returned by LoadGlobal when neither XDG_CONFIG_HOME nor
// a home directory is available.
var ErrNoConfigDir = errors.New("no config dir")

// Environment variables that override secrets from the YAML files.
const (
	EnvUsername  = "STORECHECK_USERNAME"
	EnvPassword  = "STORECHECK_PASSWORD"
	EnvZAPAPIKey = "STORECHECK_ZAP_API_KEY"
)

// FileConfig is the on-disk YAML configuration shape for storecheck.
type FileConfig struct {
	BaseURL     *string `yaml:"base_url"`
	ProductID   *int    `yaml:"product_id"`
	Category    *string `yaml:"category"`
	Limit       *int    `yaml:"limit"`
	Username    *string `yaml:"username"`
	Password    *string `yaml:"password"`
	Threads     *int    `yaml:"threads"`
	Timeout     *string `yaml:"timeout"`
	RateLimit   *int    `yaml:"rate_limit"`
	Proxy       *string `yaml:"proxy"`
	Environment *string `yaml:"environment"`
	Tester      *string `yaml:"tester"`

	LogLevel  *string `yaml:"log_level"`
	LogFile   *string `yaml:"log_file"`
	ReportDir *string `yaml:"report_dir"`
	DataFile  *string `yaml:"data_file"`

	// Case selection, comma-separated suite/name globs
	Run  *string `yaml:"run"`
	Skip *string `yaml:"skip"`

	ZAP *ZAPConfig `yaml:"zap"`
}

// ZAPConfig holds configuration for the OWASP ZAP integration.
type ZAPConfig struct {
	Address *string `yaml:"address"`
	Port    *int    `yaml:"port"`
	APIKey  *string `yaml:"api_key"`

	// BinaryPath is an explicit path to zap.sh (or zap.bat).
	// If empty, the launcher is searched in $PATH and ~/.storecheck/zap.
	BinaryPath *string `yaml:"binary"`

	PollInterval *string `yaml:"poll_interval"`
	Report       *string `yaml:"report"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a project-local config file in the given root.
// It supports .storecheck.yml/.yaml and storecheck.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".storecheck.yml", ".storecheck.yaml", "storecheck.yml", "storecheck.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, ErrNoLocalConfig
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, ErrNoConfigDir
	}
	p := filepath.Join(base, "storecheck", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, ErrNoGlobalConfig
}

// ApplyEnv replaces secrets with values from the environment when set.
func (fc *FileConfig) ApplyEnv() {
	if v := os.Getenv(EnvUsername); v != "" {
		fc.Username = &v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		fc.Password = &v
	}
	if v := os.Getenv(EnvZAPAPIKey); v != "" {
		if fc.ZAP == nil {
			fc.ZAP = &ZAPConfig{}
		}
		fc.ZAP.APIKey = &v
	}
}

// Merge returns fc with every unset field taken from fallback.
func (fc FileConfig) Merge(fallback FileConfig) FileConfig {
	out := fc
	mergePtr(&out.BaseURL, fallback.BaseURL)
	mergePtr(&out.ProductID, fallback.ProductID)
	mergePtr(&out.Category, fallback.Category)
	mergePtr(&out.Limit, fallback.Limit)
	mergePtr(&out.Username, fallback.Username)
	mergePtr(&out.Password, fallback.Password)
	mergePtr(&out.Threads, fallback.Threads)
	mergePtr(&out.Timeout, fallback.Timeout)
	mergePtr(&out.RateLimit, fallback.RateLimit)
	mergePtr(&out.Proxy, fallback.Proxy)
	mergePtr(&out.Environment, fallback.Environment)
	mergePtr(&out.Tester, fallback.Tester)
	mergePtr(&out.LogLevel, fallback.LogLevel)
	mergePtr(&out.LogFile, fallback.LogFile)
	mergePtr(&out.ReportDir, fallback.ReportDir)
	mergePtr(&out.DataFile, fallback.DataFile)
	mergePtr(&out.Run, fallback.Run)
	mergePtr(&out.Skip, fallback.Skip)
	switch {
	case out.ZAP == nil && fallback.ZAP != nil:
		z := *fallback.ZAP
		out.ZAP = &z
	case out.ZAP != nil && fallback.ZAP != nil:
		z := *out.ZAP
		mergePtr(&z.Address, fallback.ZAP.Address)
		mergePtr(&z.Port, fallback.ZAP.Port)
		mergePtr(&z.APIKey, fallback.ZAP.APIKey)
		mergePtr(&z.BinaryPath, fallback.ZAP.BinaryPath)
		mergePtr(&z.PollInterval, fallback.ZAP.PollInterval)
		mergePtr(&z.Report, fallback.ZAP.Report)
		out.ZAP = &z
	}
	return out
}

func mergePtr[T any](dst **T, fallback *T) {
	if *dst == nil && fallback != nil {
		v := *fallback
		*dst = &v
	}
}

// Property returns the string form of a configuration key, or "" when unset.
// Keys are the YAML names; "productID" is accepted for product_id.
func (fc FileConfig) Property(key string) string {
	switch key {
	case "base_url", "baseURL":
		return str(fc.BaseURL)
	case "product_id", "productID":
		return intStr(fc.ProductID)
	case "category":
		return str(fc.Category)
	case "limit":
		return intStr(fc.Limit)
	case "username":
		return str(fc.Username)
	case "password":
		return str(fc.Password)
	case "threads":
		return intStr(fc.Threads)
	case "timeout":
		return str(fc.Timeout)
	case "rate_limit":
		return intStr(fc.RateLimit)
	case "proxy":
		return str(fc.Proxy)
	case "environment":
		return str(fc.Environment)
	case "tester":
		return str(fc.Tester)
	case "log_level":
		return str(fc.LogLevel)
	case "log_file":
		return str(fc.LogFile)
	case "report_dir":
		return str(fc.ReportDir)
	case "data_file":
		return str(fc.DataFile)
	case "run":
		return str(fc.Run)
	case "skip":
		return str(fc.Skip)
	}
	return ""
}

// IntProperty parses Property(key) as an integer. Missing keys and values
// that do not parse yield 0.
func (fc FileConfig) IntProperty(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(fc.Property(key)))
	if err != nil {
		return 0
	}
	return n
}

// TimeoutOr parses the timeout field, falling back to def when unset or invalid.
func (fc FileConfig) TimeoutOr(def time.Duration) time.Duration {
	if fc.Timeout == nil {
		return def
	}
	d, err := time.ParseDuration(*fc.Timeout)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// GetZAPConfig returns the ZAP configuration, never nil.
func (fc FileConfig) GetZAPConfig() ZAPConfig {
	if fc.ZAP == nil {
		return ZAPConfig{}
	}
	return *fc.ZAP
}

// GetAddress returns the ZAP host (default: localhost).
func (zc ZAPConfig) GetAddress() string {
	if zc.Address == nil || *zc.Address == "" {
		return "localhost"
	}
	return *zc.Address
}

// GetPort returns the ZAP API port (default: 8081).
func (zc ZAPConfig) GetPort() int {
	if zc.Port == nil || *zc.Port == 0 {
		return 8081
	}
	return *zc.Port
}

// GetAPIKey returns the ZAP API key or empty string.
func (zc ZAPConfig) GetAPIKey() string { return str(zc.APIKey) }

// GetBinaryPath returns the custom launcher path or empty string.
func (zc ZAPConfig) GetBinaryPath() string { return str(zc.BinaryPath) }

// GetPollInterval returns the scan status poll interval (default: 5s).
func (zc ZAPConfig) GetPollInterval() time.Duration {
	if zc.PollInterval != nil {
		if d, err := time.ParseDuration(*zc.PollInterval); err == nil && d > 0 {
			return d
		}
	}
	return 5 * time.Second
}

// GetReport returns the HTML report output path (default: zap-report.html).
func (zc ZAPConfig) GetReport() string {
	if zc.Report == nil || *zc.Report == "" {
		return "zap-report.html"
	}
	return *zc.Report
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intStr(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
