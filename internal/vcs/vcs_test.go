package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
}

func TestChangedFilesNotGitRepoReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	files, err := ChangedFiles(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestChangedFilesReportsUntrackedAndModified(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "test")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "committed.txt"), []byte("v1"), 0o644))
	runGit(t, dir, "add", "committed.txt")
	runGit(t, dir, "commit", "-q", "-m", "initial")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "committed.txt"), []byte("v2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("new"), 0o644))

	files, err := ChangedFiles(context.Background(), dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"committed.txt", "new.txt"}, files)
}
