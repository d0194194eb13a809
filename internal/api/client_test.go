package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecheck/storecheck/internal/fakestore"
	"github.com/storecheck/storecheck/internal/metrics"
	"github.com/storecheck/storecheck/internal/order"
	"github.com/storecheck/storecheck/internal/types"
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakestore.Store) {
	t.Helper()
	srv, store := fakestore.Server()
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, opts...), store
}

func TestProducts(t *testing.T) {
	c, _ := newTestClient(t)
	resp, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.JSON().IsArray())
	assert.Greater(t, len(resp.JSON().Array()), 0)
	assert.Equal(t, "GET", resp.Method)
	assert.Contains(t, resp.URL, "/products")
}

func TestProductByID(t *testing.T) {
	c, _ := newTestClient(t)
	resp, err := c.Product(context.Background(), 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Path("id").Int())
	assert.True(t, resp.Path("title").Exists())
	assert.Contains(t, resp.URL, "/products/2")
}

func TestProductsLimitAndSort(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	resp, err := c.ProductsLimit(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, resp.JSON().Array(), 5)
	assert.Contains(t, resp.URL, "limit=5")

	resp, err = c.ProductsSorted(ctx, order.Descending)
	require.NoError(t, err)
	ids, err := resp.Ints("#.id")
	require.NoError(t, err)
	assert.True(t, order.IsSortedDescending(ids))
	assert.Contains(t, resp.URL, "sort=desc")
}

func TestCategories(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	resp, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Contains(t, resp.String(), "200")

	resp, err = c.ProductsInCategory(ctx, "men's clothing")
	require.NoError(t, err)
	for _, cat := range resp.Path("#.category").Array() {
		assert.Equal(t, "men's clothing", cat.String())
	}
}

func TestWriteOperations(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	p := types.Product{Title: "test product", Price: 13.5, Category: "electronics"}

	resp, err := c.CreateProduct(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "test product", resp.Path("title").String())
	assert.True(t, resp.Path("id").Exists())

	resp, err = c.UpdateProduct(ctx, 7, p)
	require.NoError(t, err)
	assert.EqualValues(t, 7, resp.Path("id").Int())

	resp, err = c.DeleteProduct(ctx, 6)
	require.NoError(t, err)
	assert.EqualValues(t, 6, resp.Path("id").Int())
	assert.Equal(t, http.MethodDelete, resp.Method)
}

func TestLogin(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	resp, err := c.Login(ctx, types.Login{Username: "nobody", Password: "nope"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, fakestore.LoginRejected, string(resp.Body))

	resp, err = c.Login(ctx, types.Login{Username: fakestore.Username, Password: fakestore.Password})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Path("token").String())
}

func TestMetricsRecorded(t *testing.T) {
	m := metrics.New()
	c, _ := newTestClient(t, WithMetrics(m))
	_, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "storecheck_requests_total"))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url, Timeout: time.Second})
	_, err := c.Products(context.Background())
	assert.Error(t, err)
}

func TestRateLimitHonoursContext(t *testing.T) {
	c, _ := newTestClient(t)
	c2 := New(Config{BaseURL: c.BaseURL(), RateLimit: 1})
	ctx, cancel := context.WithCancel(context.Background())
	_, err := c2.Products(ctx) // consumes the single burst token
	require.NoError(t, err)
	cancel()
	_, err = c2.Products(ctx)
	assert.Error(t, err)
}

func TestDefaultBaseURL(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, "https://fakestoreapi.com", c.BaseURL())
}
