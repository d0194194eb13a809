package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecheck/storecheck/internal/types"
)

func TestBaseline_RoundTripAndFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	old := []types.CaseResult{
		{Suite: "products", Name: "delete", Status: types.StatusFail, Message: "status: expected 200, got 500"},
		{Suite: "products", Name: "get-all", Status: types.StatusPass},
	}
	require.NoError(t, SaveBaseline(path, old))

	base, err := LoadBaseline(path)
	require.NoError(t, err)
	assert.Len(t, base.Items, 1)

	now := []types.CaseResult{
		old[0],
		{Suite: "products", Name: "update", Status: types.StatusFail, Message: "title: expected a, got b"},
		{Suite: "products", Name: "delete", Status: types.StatusFail, Message: "status: expected 200, got 404"},
	}
	fresh := FilterNewFailures(now, base)
	require.Len(t, fresh, 2, "same case with a different failure counts as new")
	assert.Equal(t, "products/update", fresh[0].ID())
}

func TestLoadBaseline_Missing(t *testing.T) {
	b, err := LoadBaseline(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
	assert.NotNil(t, b.Items)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "0000000000000000", Fingerprint(""))
	a := Fingerprint("boom")
	assert.Len(t, a, 16)
	assert.Equal(t, a, Fingerprint("boom"))
	assert.NotEqual(t, a, Fingerprint("bang"))

	rs := []types.CaseResult{{Status: types.StatusFail, Message: "boom"}, {Status: types.StatusPass}}
	Stamp(rs)
	assert.Equal(t, a, rs[0].Fingerprint)
	assert.Empty(t, rs[1].Fingerprint)
}

func TestFingerprint_IgnoresGeneratedValues(t *testing.T) {
	a := Fingerprint("title: expected Keyboard Edge Rubber, got always-the-same")
	b := Fingerprint("title: expected Handmade Steel Chair, got always-the-same")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Fingerprint("price: expected 12.5, got 3"))

	x := Fingerprint(`request failed: Post "http://127.0.0.1:40211/products": connection refused`)
	y := Fingerprint(`request failed: Post "http://127.0.0.1:38877/products": connection refused`)
	assert.Equal(t, x, y)

	base := Baseline{Items: map[string]bool{}}
	base.Items[key(types.CaseResult{Suite: "products", Name: "add", Status: types.StatusFail,
		Message: "title: expected Keyboard Edge Rubber, got x"})] = true
	again := []types.CaseResult{{Suite: "products", Name: "add", Status: types.StatusFail,
		Message: "title: expected Ergonomic Wool Hat, got x"}}
	Stamp(again)
	assert.False(t, ShouldFail(again, "new", base))
}

func TestShouldFail(t *testing.T) {
	failed := []types.CaseResult{{Suite: "s", Name: "a", Status: types.StatusFail, Message: "x"}}
	passed := []types.CaseResult{{Suite: "s", Name: "a", Status: types.StatusPass}}
	empty := Baseline{Items: map[string]bool{}}
	known := Baseline{Items: map[string]bool{"s/a|" + Fingerprint("x"): true}}

	assert.True(t, ShouldFail(failed, "any", empty))
	assert.True(t, ShouldFail(failed, "", empty))
	assert.False(t, ShouldFail(passed, "any", empty))
	assert.False(t, ShouldFail(failed, "none", empty))
	assert.True(t, ShouldFail(failed, "new", empty))
	assert.False(t, ShouldFail(failed, "new", known))
}
