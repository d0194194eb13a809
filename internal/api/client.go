// Package api is the HTTP client for the FakeStore REST service. Every call
// is throttled, logged and counted; responses are kept whole so checks and
// reports can inspect the body.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/storecheck/storecheck/internal/metrics"
	"github.com/storecheck/storecheck/internal/order"
	"github.com/storecheck/storecheck/internal/routes"
	"github.com/storecheck/storecheck/internal/types"
)

// maxLoggedBody caps how much of a body goes into the request log.
const maxLoggedBody = 4 << 10

// Config describes the target service.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Proxy     string // e.g. http://localhost:8081 to route traffic through ZAP
	RateLimit int    // requests per second; 0 disables throttling
	UserAgent string
}

// Option customises a Client.
type Option func(*Client)

// WithLogger sets the request/response logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records every request in m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// Client issues requests against one FakeStore deployment. It is safe for
// concurrent use.
type Client struct {
	http    *resty.Client
	hc      *http.Client
	log     *zap.Logger
	metrics *metrics.Collector
	limiter *rate.Limiter
}

// New builds a client for cfg.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}

	if c.hc != nil {
		c.http = resty.NewWithClient(c.hc)
	} else {
		c.http = resty.New()
	}
	base := cfg.BaseURL
	if base == "" {
		base = routes.BaseURL
	}
	c.http.SetBaseURL(base)
	c.http.SetLogger(c.log.Sugar())
	c.http.SetHeader("Accept", "application/json")
	ua := cfg.UserAgent
	if ua == "" {
		ua = "storecheck"
	}
	c.http.SetHeader("User-Agent", ua)
	if cfg.Timeout > 0 {
		c.http.SetTimeout(cfg.Timeout)
	}
	if cfg.Proxy != "" {
		c.http.SetProxy(cfg.Proxy)
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}
	return c
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string { return c.http.BaseURL }

// Products fetches every product.
func (c *Client) Products(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, routes.AllProducts, nil)
}

// Product fetches a single product.
func (c *Client) Product(ctx context.Context, id int) (*Response, error) {
	return c.do(ctx, http.MethodGet, routes.ProductByID, func(r *resty.Request) {
		r.SetPathParam("id", strconv.Itoa(id))
	})
}

// ProductsLimit fetches at most n products.
func (c *Client) ProductsLimit(ctx context.Context, n int) (*Response, error) {
	return c.do(ctx, http.MethodGet, routes.ProductsWithLimit, func(r *resty.Request) {
		r.SetQueryParam("limit", strconv.Itoa(n))
	})
}

// ProductsSorted fetches every product ordered by id in dir.
func (c *Client) ProductsSorted(ctx context.Context, dir order.Direction) (*Response, error) {
	return c.do(ctx, http.MethodGet, routes.ProductsSorted, func(r *resty.Request) {
		r.SetQueryParam("sort", dir.String())
	})
}

// Categories lists the category names.
func (c *Client) Categories(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, routes.AllCategories, nil)
}

// ProductsInCategory lists the products of one category.
func (c *Client) ProductsInCategory(ctx context.Context, category string) (*Response, error) {
	return c.do(ctx, http.MethodGet, routes.ProductsByCategory, func(r *resty.Request) {
		r.SetPathParam("category", category)
	})
}

// CreateProduct posts p.
func (c *Client) CreateProduct(ctx context.Context, p types.Product) (*Response, error) {
	return c.do(ctx, http.MethodPost, routes.CreateProduct, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(p)
	})
}

// UpdateProduct replaces product id with p.
func (c *Client) UpdateProduct(ctx context.Context, id int, p types.Product) (*Response, error) {
	return c.do(ctx, http.MethodPut, routes.UpdateProduct, func(r *resty.Request) {
		r.SetPathParam("id", strconv.Itoa(id))
		r.SetHeader("Content-Type", "application/json").SetBody(p)
	})
}

// DeleteProduct removes product id.
func (c *Client) DeleteProduct(ctx context.Context, id int) (*Response, error) {
	return c.do(ctx, http.MethodDelete, routes.DeleteProduct, func(r *resty.Request) {
		r.SetPathParam("id", strconv.Itoa(id))
	})
}

// Login posts credentials to the auth endpoint. A rejected login is not an
// error; inspect Response.StatusCode.
func (c *Client) Login(ctx context.Context, l types.Login) (*Response, error) {
	return c.do(ctx, http.MethodPost, routes.AuthLogin, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(l)
	})
}

// do executes one request. route is a template from the routes package; its
// query part is dropped because build sets query parameters explicitly.
func (c *Client) do(ctx context.Context, method, route string, build func(*resty.Request)) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	path := routes.Path(route)
	req := c.http.R().SetContext(ctx)
	if build != nil {
		build(req)
	}

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("route", route),
		zap.Any("path_params", req.PathParams),
		zap.String("query", req.QueryParam.Encode()),
	)

	start := time.Now()
	raw, err := req.Execute(method, path)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveRequest(path, method, 0, elapsed)
		c.log.Error("request failed",
			zap.String("method", method),
			zap.String("route", route),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	resp := &Response{
		Method:     method,
		URL:        raw.Request.URL,
		StatusCode: raw.StatusCode(),
		Body:       raw.Body(),
		Header:     raw.Header(),
		Duration:   elapsed,
	}
	c.metrics.ObserveRequest(path, method, resp.StatusCode, elapsed)
	c.log.Info("response",
		zap.String("method", method),
		zap.String("url", resp.URL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", elapsed),
		zap.ByteString("body", truncate(resp.Body, maxLoggedBody)),
	)
	return resp, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
