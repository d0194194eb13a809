package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseInts(t *testing.T) {
	r := &Response{Body: []byte(`[{"id":3},{"id":1},{"id":2}]`)}
	ids, err := r.Ints("#.id")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, ids)

	r = &Response{Body: []byte(`{"id":9}`)}
	ids, err = r.Ints("id")
	require.NoError(t, err)
	assert.Equal(t, []int{9}, ids)
}

func TestResponseInts_Errors(t *testing.T) {
	r := &Response{Body: []byte(`[{"id":"x"}]`)}
	_, err := r.Ints("#.id")
	assert.Error(t, err)

	r = &Response{Body: []byte(`{}`)}
	_, err = r.Ints("id")
	assert.Error(t, err)
}

func TestResponseString(t *testing.T) {
	r := &Response{Method: "GET", URL: "http://x/products", StatusCode: 200, Duration: 1500 * time.Microsecond}
	assert.Equal(t, "GET http://x/products -> 200 (2ms)", r.String())
	assert.Equal(t, "GET http://x/products", r.RequestLine())
}
