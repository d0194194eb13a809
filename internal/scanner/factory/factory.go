package factory

import (
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/storecheck/storecheck/internal/config"
	"github.com/storecheck/storecheck/internal/scanner"
	"github.com/storecheck/storecheck/internal/scanner/zaproxy"
)

// Config is the subset of configuration needed to create a scanner.
type Config struct {
	ZAP     config.ZAPConfig
	Timeout time.Duration
	Log     *zap.Logger
	// BaseURL overrides the address/port pair, mainly for tests.
	BaseURL string
}

// ClientConfig converts the file configuration into the ZAP client's shape.
// A BaseURL with a host and port overrides the configured address and port,
// so a daemon started from cfg listens where the client will call it.
func ClientConfig(cfg Config) zaproxy.Config {
	zc := zaproxy.Config{
		Address:      cfg.ZAP.GetAddress(),
		Port:         cfg.ZAP.GetPort(),
		APIKey:       cfg.ZAP.GetAPIKey(),
		PollInterval: cfg.ZAP.GetPollInterval(),
		Timeout:      cfg.Timeout,
	}
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Hostname() != "" {
		zc.Address = u.Hostname()
		if p, err := strconv.Atoi(u.Port()); err == nil && p > 0 {
			zc.Port = p
		}
	}
	return zc
}

// New creates the scanner described by cfg. ZAP is currently the only
// implementation.
func New(cfg Config) (scanner.Scanner, error) {
	return zaproxy.NewClient(ClientConfig(cfg), cfg.BaseURL, cfg.Log), nil
}

// NewDaemon locates the ZAP launcher and prepares a daemon for cfg.
func NewDaemon(cfg Config) (*zaproxy.Daemon, error) {
	bin, err := zaproxy.NewBinaryManager(cfg.ZAP.GetBinaryPath()).Find()
	if err != nil {
		return nil, err
	}
	return zaproxy.NewDaemon(ClientConfig(cfg), bin, cfg.Log), nil
}
