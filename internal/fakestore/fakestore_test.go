package fakestore

import (
	"net/http"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func client(t *testing.T) (*resty.Client, *Store) {
	t.Helper()
	srv, store := Server()
	t.Cleanup(srv.Close)
	return resty.New().SetBaseURL(srv.URL), store
}

func TestList_SortAndLimit(t *testing.T) {
	c, store := client(t)

	resp, err := c.R().Get("/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, int64(len(seed)), gjson.GetBytes(resp.Body(), "#").Int())

	resp, err = c.R().SetQueryParam("sort", "desc").Get("/products")
	require.NoError(t, err)
	assert.Equal(t, int64(16), gjson.GetBytes(resp.Body(), "0.id").Int())

	resp, err = c.R().SetQueryParam("limit", "3").Get("/products")
	require.NoError(t, err)
	assert.Equal(t, int64(3), gjson.GetBytes(resp.Body(), "#").Int())

	store.BreakSort = true
	resp, err = c.R().SetQueryParam("sort", "asc").Get("/products")
	require.NoError(t, err)
	assert.Equal(t, int64(16), gjson.GetBytes(resp.Body(), "0.id").Int())
	assert.Equal(t, 4, store.Requests())
}

func TestCategories(t *testing.T) {
	c, _ := client(t)
	resp, err := c.R().Get("/products/categories")
	require.NoError(t, err)
	var cats []string
	for _, v := range gjson.ParseBytes(resp.Body()).Array() {
		cats = append(cats, v.String())
	}
	assert.Equal(t, []string{"men's clothing", "jewelery", "electronics", "women's clothing"}, cats)

	resp, err = c.R().Get("/products/category/jewelery")
	require.NoError(t, err)
	assert.Equal(t, []any{"jewelery", "jewelery"}, toAny(gjson.GetBytes(resp.Body(), "#.category").Array()))

	resp, err = c.R().Get("/products/category/toys")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, resp.String())
}

func toAny(rs []gjson.Result) []any {
	out := make([]any, len(rs))
	for i, r := range rs {
		out[i] = r.Value()
	}
	return out
}

func TestGet(t *testing.T) {
	c, _ := client(t)
	resp, err := c.R().Get("/products/9")
	require.NoError(t, err)
	assert.Equal(t, "electronics", gjson.GetBytes(resp.Body(), "category").String())

	resp, err = c.R().Get("/products/999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Empty(t, resp.Body())
}

func TestWritesEcho(t *testing.T) {
	c, store := client(t)

	resp, err := c.R().SetBody(map[string]any{"title": "Lamp", "price": 12.5}).Post("/products")
	require.NoError(t, err)
	assert.Equal(t, int64(createdID), gjson.GetBytes(resp.Body(), "id").Int())
	assert.Equal(t, "Lamp", gjson.GetBytes(resp.Body(), "title").String())

	resp, err = c.R().SetBody(map[string]any{"title": "Desk Lamp"}).Put("/products/7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), gjson.GetBytes(resp.Body(), "id").Int())

	resp, err = c.R().Delete("/products/3")
	require.NoError(t, err)
	assert.Equal(t, "Mens Cotton Jacket", gjson.GetBytes(resp.Body(), "title").String())

	resp, err = c.R().SetBody("{").SetHeader("Content-Type", "application/json").Post("/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	assert.Len(t, store.Products, len(seed), "writes are not persisted")
}

func TestLogin(t *testing.T) {
	c, _ := client(t)

	resp, err := c.R().SetBody(map[string]string{"username": Username, "password": Password}).Post("/auth/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, Token, gjson.GetBytes(resp.Body(), "token").String())

	resp, err = c.R().SetBody(map[string]string{"username": "nobody", "password": "x"}).Post("/auth/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Equal(t, LoginRejected, resp.String())

	resp, err = c.R().SetBody(map[string]string{}).Post("/auth/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
}
