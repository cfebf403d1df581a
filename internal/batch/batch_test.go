package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamEmitsTerminalBatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a"), 0o644))

	opts := DefaultOptions(root)
	cls := []Classification{{Path: "a.go", Changed: true}}

	var batches []Batch
	for b := range Stream(opts, cls, []string{"gone.go"}) {
		batches = append(batches, b)
	}

	require.Len(t, batches, 2)
	assert.Equal(t, KindContent, batches[0].Kind)
	assert.Equal(t, "package a", batches[0].Files["a.go"])

	final := batches[len(batches)-1]
	assert.Equal(t, KindFinal, final.Kind)
	assert.Equal(t, []string{"gone.go"}, final.Deleted)
	assert.Contains(t, final.Stats, "a.go")
}

func TestStreamSkipsUnchanged(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("x"), 0o644))

	cls := []Classification{{Path: "a.go", Unchanged: true}}
	var batches []Batch
	for b := range Stream(DefaultOptions(root), cls, nil) {
		batches = append(batches, b)
	}
	require.Len(t, batches, 1)
	assert.Equal(t, KindFinal, batches[0].Kind)
	assert.Equal(t, []string{"a.go"}, batches[0].Unchanged)
}

func TestReadBoundedExactChunkSizeIsWhole(t *testing.T) {
	root := t.TempDir()
	content := strings.Repeat("a", 100)
	path := filepath.Join(root, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, truncated, err := readBounded(path, 100, 100, 1_000_000)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, content, got)
}

func TestReadBoundedTruncatesOverBudget(t *testing.T) {
	root := t.TempDir()
	content := strings.Repeat("b", 200_000)
	path := filepath.Join(root, "big.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, truncated, err := readBounded(path, 200_000, 1024, 1024)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.LessOrEqual(t, len(got), 2048)
}
