package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	rows, err := LoadJSON("testdata/products.json")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Trail Running Shoe", rows[0]["title"])
	assert.Equal(t, "89.99", rows[0]["price"])
	// numbers are kept in their JSON form
	assert.Equal(t, "45.5", rows[1]["price"])
}

func TestLoadJSON_Invalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"not":"an array"}`), 0o644))
	_, err := LoadJSON(p)
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	rows, err := LoadCSV("testdata/products.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header is not a data row")
	assert.Equal(t, "USB-C Hub, 7 ports", rows[1]["title"])
	assert.Equal(t, "electronics", rows[1]["category"])
}

func TestLoadProductsCSV(t *testing.T) {
	rows, err := LoadProductsCSV("testdata/products.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 29.5, rows[1].Price)
	p := rows[0].Product()
	assert.Equal(t, "Trail Running Shoe", p.Title)
	assert.Zero(t, p.ID)
}

func TestLoad_Dispatch(t *testing.T) {
	rows, err := Load("testdata/products.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = Load("testdata/products.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRowProduct(t *testing.T) {
	p, err := Row{"title": "a", "price": " 12.25 ", "category": "electronics"}.Product()
	require.NoError(t, err)
	assert.Equal(t, 12.25, p.Price)
	assert.Equal(t, "electronics", p.Category)

	_, err = Row{"title": "a", "price": "cheap"}.Product()
	assert.Error(t, err)
	_, err = Row{"title": "a"}.Product()
	assert.Error(t, err)
}
