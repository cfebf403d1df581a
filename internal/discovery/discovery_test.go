package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
}

func TestWalkExcludesDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.go")
	writeFile(t, root, "node_modules/pkg/index.js")
	writeFile(t, root, ".git/HEAD")

	paths, err := Walk(Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.go"}, paths)
}

func TestWalkInclusionOverridesExclusion(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dist/bundle.js")
	writeFile(t, root, "src/main.go")

	paths, err := Walk(Options{Root: root, Include: []string{"dist/*.js"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dist/bundle.js"}, paths)
}

func TestWalkPriorityFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go")
	writeFile(t, root, "z_priority.go")
	writeFile(t, root, "m.go")

	paths, err := Walk(Options{Root: root, PriorityPattern: "z_*.go"})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, "z_priority.go", paths[0])
}

func TestWalkUserExclusionMerges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "vendor/lib.go")
	writeFile(t, root, "main.go")

	paths, err := Walk(Options{Root: root, Exclude: []string{"vendor/**"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, paths)
}
