package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendIgnore_IdempotentAndCreates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")

	added, err := AppendIgnore(dir, "reports/", "logs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/", "logs/"}, added)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "reports/\nlogs/\n", string(b))

	added, err = AppendIgnore(dir, "reports/")
	require.NoError(t, err)
	assert.Empty(t, added)
	b, _ = os.ReadFile(p)
	assert.Equal(t, 1, strings.Count(string(b), "reports/"))
}

func TestAppendIgnore_NoTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(p, []byte("bin"), 0644))

	_, err := AppendIgnore(dir, "logs/", "logs/")
	require.NoError(t, err)
	b, _ := os.ReadFile(p)
	assert.Equal(t, "bin\nlogs/\n", string(b))
}

func TestGeneratedIgnores(t *testing.T) {
	items := GeneratedIgnores()
	assert.Contains(t, items, "reports/")
	assert.Contains(t, items, ".storecheck_last_run.json")
}
