package changedetect

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecurator/semindex/internal/batch"
)

func TestClassifyNewFileIsChanged(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "x.ts"), []byte("x"), 0o644))

	c := Load(root)
	cls, deleted := c.Classify(root, []string{"x.ts"})
	require.Len(t, cls, 1)
	assert.True(t, cls[0].Changed)
	assert.Empty(t, deleted)
}

func TestClassifyUnchangedWhenSizeAndMtimeMatch(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "x.ts")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)

	c := &Cache{entries: map[string]batch.Stat{
		"x.ts": {Size: info.Size(), Mtime: info.ModTime()},
	}}

	cls, _ := c.Classify(root, []string{"x.ts"})
	require.Len(t, cls, 1)
	assert.True(t, cls[0].Unchanged)
}

func TestClassifySizeChangeWins(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "x.ts")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))
	info, _ := os.Stat(path)

	c := &Cache{entries: map[string]batch.Stat{
		"x.ts": {Size: 1, Mtime: info.ModTime()},
	}}
	cls, _ := c.Classify(root, []string{"x.ts"})
	assert.True(t, cls[0].Changed)
}

func TestClassifyDeletedPaths(t *testing.T) {
	root := t.TempDir()
	c := &Cache{entries: map[string]batch.Stat{
		"gone.ts": {Size: 5, Mtime: time.Now()},
	}}
	cls, deleted := c.Classify(root, nil)
	assert.Empty(t, cls)
	assert.Equal(t, []string{"gone.ts"}, deleted)
}

func TestUpdatePersistsAtomically(t *testing.T) {
	root := t.TempDir()
	c := Load(root)
	err := c.Update(root, map[string]batch.Stat{
		"a.go": {Size: 10, Mtime: time.Now()},
	}, nil)
	require.NoError(t, err)

	reloaded := Load(root)
	assert.Contains(t, reloaded.Entries(), "a.go")
}

func TestUpdateRemovesDeletedEntries(t *testing.T) {
	root := t.TempDir()
	c := Load(root)
	require.NoError(t, c.Update(root, map[string]batch.Stat{"a.go": {Size: 1}}, nil))
	require.NoError(t, c.Update(root, nil, []string{"a.go"}))

	reloaded := Load(root)
	assert.NotContains(t, reloaded.Entries(), "a.go")
}
