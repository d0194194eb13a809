package zaproxy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// BinaryManager locates the ZAP launcher script.
type BinaryManager struct {
	customPath string
	cachePath  string
}

// NewBinaryManager creates a binary manager.
// customPath: optional explicit path to zap.sh / zap.bat
// The fallback install directory is ~/.storecheck/zap.
func NewBinaryManager(customPath string) *BinaryManager {
	homeDir, _ := os.UserHomeDir()
	return &BinaryManager{
		customPath: customPath,
		cachePath:  filepath.Join(homeDir, ".storecheck", "zap"),
	}
}

// launcherName is zap.bat on Windows and zap.sh elsewhere.
func launcherName() string {
	if runtime.GOOS == "windows" {
		return "zap.bat"
	}
	return "zap.sh"
}

// Find locates the launcher using the following search order:
// 1. Custom path (if provided)
// 2. $PATH lookup
// 3. ~/.storecheck/zap/zap.sh
func (bm *BinaryManager) Find() (string, error) {
	if bm.customPath != "" {
		if _, err := os.Stat(bm.customPath); err == nil {
			return bm.customPath, nil
		}
		return "", fmt.Errorf("custom zap path not found: %s", bm.customPath)
	}

	if path, err := exec.LookPath(launcherName()); err == nil {
		return path, nil
	}

	cached := filepath.Join(bm.cachePath, launcherName())
	if _, err := os.Stat(cached); err == nil {
		return cached, nil
	}

	return "", fmt.Errorf("%s not found in PATH or %s", launcherName(), bm.cachePath)
}

// Daemon is a ZAP process started in daemon mode.
type Daemon struct {
	cfg    Config
	binary string
	cmd    *exec.Cmd
	log    *zap.Logger
}

// NewDaemon prepares a daemon for the launcher at binary.
func NewDaemon(cfg Config, binary string, log *zap.Logger) *Daemon {
	if log == nil {
		log = zap.NewNop()
	}
	return &Daemon{cfg: cfg, binary: binary, log: log}
}

// Args are the launcher arguments for cfg.
func (d *Daemon) Args() []string {
	args := []string{"-daemon", "-host", d.cfg.Address, "-port", strconv.Itoa(d.cfg.Port)}
	if d.cfg.APIKey != "" {
		args = append(args, "-config", "api.key="+d.cfg.APIKey)
	} else {
		args = append(args, "-config", "api.disablekey=true")
	}
	return args
}

// Start launches ZAP and waits until its API answers or ctx expires.
func (d *Daemon) Start(ctx context.Context) (*Client, error) {
	if d.cmd != nil {
		return nil, errors.New("zap daemon already started")
	}
	d.cmd = exec.Command(d.binary, d.Args()...)
	d.cmd.Dir = filepath.Dir(d.binary)
	d.log.Info("starting zap daemon", zap.String("binary", d.binary), zap.Strings("args", d.Args()))
	if err := d.cmd.Start(); err != nil {
		d.cmd = nil
		return nil, fmt.Errorf("start zap: %w", err)
	}

	client := NewClient(d.cfg, "", d.log)
	if err := WaitReady(ctx, client); err != nil {
		_ = d.Kill()
		return nil, err
	}
	return client, nil
}

// WaitReady polls the version endpoint until ZAP answers.
func WaitReady(ctx context.Context, c *Client) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.Retry(func() error {
		v, err := c.Version(ctx)
		if err != nil {
			return err
		}
		c.log.Info("zap is ready", zap.String("version", v))
		return nil
	}, backoff.WithContext(b, ctx))
}

// Stop shuts ZAP down through its API and reaps the process.
func (d *Daemon) Stop(ctx context.Context, c *Client) error {
	if d.cmd == nil {
		return nil
	}
	if err := c.Shutdown(ctx); err != nil {
		d.log.Warn("zap shutdown call failed, killing process", zap.Error(err))
		return d.Kill()
	}
	done := make(chan error, 1)
	go func() { done <- d.cmd.Wait() }()
	select {
	case <-done:
	case <-ctx.Done():
		return d.Kill()
	}
	d.cmd = nil
	return nil
}

// Kill terminates the process without a clean shutdown.
func (d *Daemon) Kill() error {
	if d.cmd == nil || d.cmd.Process == nil {
		return nil
	}
	err := d.cmd.Process.Kill()
	_, _ = d.cmd.Process.Wait()
	d.cmd = nil
	return err
}
