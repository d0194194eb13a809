// Package zaproxy talks to an OWASP ZAP daemon over its JSON API and can
// locate and launch the daemon itself.
package zaproxy

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/storecheck/storecheck/internal/scanner"
	"github.com/storecheck/storecheck/internal/types"
)

// Config describes how to reach the ZAP API.
type Config struct {
	Address      string
	Port         int
	APIKey       string
	PollInterval time.Duration
	// StatusRetries bounds the retries of a failing status call before the
	// scan is abandoned.
	StatusRetries uint64
	Timeout       time.Duration
}

// BaseURL is the API root, e.g. http://localhost:8081.
func (c Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Address, c.Port)
}

// Client implements scanner.Scanner against the ZAP JSON API.
type Client struct {
	cfg        Config
	http       *resty.Client
	log        *zap.Logger
	newBackOff func() backoff.BackOff
}

var _ scanner.Scanner = (*Client)(nil)

// APIError is an error reported by ZAP in its JSON error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("zap: HTTP %d", e.Status)
	}
	return fmt.Sprintf("zap: %s: %s", e.Code, e.Message)
}

// NewClient creates a client. baseURL overrides cfg.BaseURL() when non-empty.
func NewClient(cfg Config, baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.StatusRetries == 0 {
		cfg.StatusRetries = 3
	}
	if baseURL == "" {
		baseURL = cfg.BaseURL()
	}
	h := resty.New().SetBaseURL(baseURL)
	if cfg.Timeout > 0 {
		h.SetTimeout(cfg.Timeout)
	}
	if cfg.APIKey != "" {
		h.SetHeader("X-ZAP-API-Key", cfg.APIKey)
		h.SetQueryParam("apikey", cfg.APIKey)
	}
	return &Client{
		cfg:  cfg,
		http: h,
		log:  log,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = cfg.PollInterval / 4
			b.MaxElapsedTime = 0
			b.Reset()
			return b
		},
	}
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).SetQueryParams(params).Get(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		body := resp.Body()
		return nil, &APIError{
			Status:  resp.StatusCode(),
			Code:    gjson.GetBytes(body, "code").String(),
			Message: gjson.GetBytes(body, "message").String(),
		}
	}
	return resp.Body(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, params map[string]string, field string) (gjson.Result, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return gjson.Result{}, err
	}
	v := gjson.GetBytes(body, field)
	if !v.Exists() {
		return gjson.Result{}, fmt.Errorf("zap %s: response has no %q field", path, field)
	}
	return v, nil
}

// StartScan starts a recursive active scan of target.
func (c *Client) StartScan(ctx context.Context, target string) (string, error) {
	if target == "" {
		return "", scanner.ErrEmptyTarget
	}
	c.log.Info("initiating active scan", zap.String("target", target))
	v, err := c.getJSON(ctx, "/JSON/ascan/action/scan/", map[string]string{
		"url":         target,
		"recurse":     "true",
		"inScopeOnly": "false",
	}, "scan")
	if err != nil {
		return "", err
	}
	c.log.Info("scan started", zap.String("scan_id", v.String()))
	return v.String(), nil
}

// Status returns the progress of a scan in percent.
func (c *Client) Status(ctx context.Context, id string) (int, error) {
	v, err := c.getJSON(ctx, "/JSON/ascan/view/status/", map[string]string{"scanId": id}, "status")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v.String())
	if err != nil {
		return 0, fmt.Errorf("zap status %q: %w", v.String(), err)
	}
	return n, nil
}

// Wait polls the scan status every poll interval until it reaches 100.
// A failing status call is retried with exponential backoff; once the
// retries are exhausted the scan is abandoned.
func (c *Client) Wait(ctx context.Context, id string, onProgress func(int)) error {
	timer := time.NewTimer(c.cfg.PollInterval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		var progress int
		op := func() error {
			p, err := c.Status(ctx, id)
			if err != nil {
				return err
			}
			progress = p
			return nil
		}
		b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.cfg.StatusRetries), ctx)
		notify := func(err error, next time.Duration) {
			c.log.Warn("scan progress error", zap.Error(err), zap.Duration("retry_in", next))
		}
		if err := backoff.RetryNotify(op, b, notify); err != nil {
			return fmt.Errorf("scan failed or progress could not be fetched: %w", err)
		}

		c.log.Info("scan progress", zap.Int("percent", progress))
		if onProgress != nil {
			onProgress(progress)
		}
		if progress >= 100 {
			return nil
		}
		timer.Reset(c.cfg.PollInterval)
	}
}

// HTMLReport fetches the HTML report.
func (c *Client) HTMLReport(ctx context.Context) ([]byte, error) {
	return c.report(ctx, "/OTHER/core/other/htmlreport/")
}

// XMLReport fetches the XML report.
func (c *Client) XMLReport(ctx context.Context) ([]byte, error) {
	return c.report(ctx, "/OTHER/core/other/xmlreport/")
}

func (c *Client) report(ctx context.Context, path string) ([]byte, error) {
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, scanner.ErrEmptyReport
	}
	return body, nil
}

// Alerts lists alerts under baseURL.
func (c *Client) Alerts(ctx context.Context, baseURL string) ([]types.Alert, error) {
	params := map[string]string{}
	if baseURL != "" {
		params["baseurl"] = baseURL
	}
	v, err := c.getJSON(ctx, "/JSON/core/view/alerts/", params, "alerts")
	if err != nil {
		return nil, err
	}
	var out []types.Alert
	for _, a := range v.Array() {
		out = append(out, types.Alert{
			PluginID:    a.Get("pluginId").String(),
			Name:        a.Get("alert").String(),
			Risk:        types.Risk(a.Get("risk").String()),
			Confidence:  a.Get("confidence").String(),
			URL:         a.Get("url").String(),
			Method:      a.Get("method").String(),
			Param:       a.Get("param").String(),
			Evidence:    a.Get("evidence").String(),
			Description: a.Get("description").String(),
			Solution:    a.Get("solution").String(),
			CWEID:       a.Get("cweid").String(),
			WASCID:      a.Get("wascid").String(),
		})
	}
	return out, nil
}

// Shutdown asks ZAP to exit.
func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.get(ctx, "/JSON/core/action/shutdown/", nil)
	return err
}

// Version returns the ZAP version.
func (c *Client) Version(ctx context.Context) (string, error) {
	v, err := c.getJSON(ctx, "/JSON/core/view/version/", nil, "version")
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
