// Package vcs answers spec.md §6's "changes" operation: which files the
// working tree has modified since HEAD, so a caller can intersect that
// list against the index and report impact. Grounded on the teacher's
// internal/git/provider.go (Provider wraps exec.Command("git", ...) and
// parses --name-status output), reduced to the one scope this module's
// CLI needs — "everything uncommitted" — instead of the teacher's full
// staged/WIP/commit/range scope matrix.
package vcs

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ChangedFiles returns project-relative paths of files with uncommitted
// changes under root (git diff HEAD, falling back to staged-only for a
// brand new repo with no HEAD yet), plus untracked files git would add.
// Returns an empty slice, not an error, when root isn't a git repository
// at all — spec.md §6 treats "changes" as best-effort, not fatal.
func ChangedFiles(ctx context.Context, root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vcs: resolving root: %w", err)
	}
	if !isGitRepo(ctx, absRoot) {
		return nil, nil
	}

	tracked, err := diffNames(ctx, absRoot, "diff", "HEAD", "--name-only")
	if err != nil {
		tracked, err = diffNames(ctx, absRoot, "diff", "--cached", "--name-only")
		if err != nil {
			return nil, fmt.Errorf("vcs: git diff failed: %w", err)
		}
	}

	untracked, err := diffNames(ctx, absRoot, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("vcs: git ls-files failed: %w", err)
	}

	seen := make(map[string]bool, len(tracked)+len(untracked))
	var out []string
	for _, f := range append(tracked, untracked...) {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

func isGitRepo(ctx context.Context, root string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = root
	return cmd.Run() == nil
}

func diffNames(ctx context.Context, root string, args ...string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			names = append(names, filepath.ToSlash(line))
		}
	}
	return names, scanner.Err()
}
