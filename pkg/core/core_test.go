package core

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsJSONRoundTrip(t *testing.T) {
	in := []CaseResult{
		{Suite: "products", Name: "get-all", Status: "pass", Duration: 12 * time.Millisecond},
		{Suite: "login", Name: "invalid-user", Status: "fail", Message: "status: expected 401, got 200"},
	}
	var buf bytes.Buffer
	require.NoError(t, MarshalResults(&buf, in))
	assert.Contains(t, buf.String(), "\n  ", "indented output")

	out, err := UnmarshalResults(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestUnmarshalResults_Invalid(t *testing.T) {
	_, err := UnmarshalResults(bytes.NewBufferString("{"))
	assert.Error(t, err)
}

func TestIsSorted(t *testing.T) {
	assert.True(t, IsSortedDescending([]float64{3.5, 2, 2, -1}))
	assert.False(t, IsSorted([]int{1, 3, 2}, Ascending))
}
