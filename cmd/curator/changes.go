package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/codecurator/semindex/internal/semindex"
	"github.com/codecurator/semindex/internal/vcs"
)

// changesCommand implements spec.md §6's "<cmd> changes": list the
// working tree's uncommitted files (via internal/vcs) and, for each
// definition they contain, report its impact — so a reviewer sees what
// a pending change might break before it's committed.
func changesCommand(c *cli.Context) error {
	svc, err := buildService(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	ctx := context.Background()
	if err := ensureFresh(ctx, svc); err != nil {
		return err
	}

	changed, err := vcs.ChangedFiles(ctx, svc.Root)
	if err != nil {
		return cli.Exit(err, 2)
	}
	if len(changed) == 0 {
		fmt.Println("No uncommitted changes.")
		return nil
	}

	for _, file := range changed {
		defs := svc.List(semindex.Options{Files: []string{file}})
		if len(defs) == 0 {
			fmt.Printf("%s: not indexed\n", file)
			continue
		}
		fmt.Printf("%s:\n", file)
		for _, d := range defs {
			impact := svc.Impact(d.Definition.Term)
			fmt.Printf("  %s (%s): %d reference(s) across %d file(s)\n",
				d.Definition.Term, d.Definition.Kind, len(impact.References), impact.FileCount)
		}
	}
	return nil
}
