package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirUsesProjectWhenWritable(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, filepath.Join(root, ".curator"), Dir(root))
}

func TestAtomicWriteCreatesParentsAndFile(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b", "c.json")
	require.NoError(t, AtomicWrite(target, []byte(`{"ok":true}`)))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}

func TestAtomicWriteOverwrites(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "f.json")
	require.NoError(t, AtomicWrite(target, []byte("one")))
	require.NoError(t, AtomicWrite(target, []byte("two")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}
