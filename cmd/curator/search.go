package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v2"
)

// searchCommand implements spec.md §6's bare "<cmd> <query>" invocation:
// ensure the index is fresh, run the pattern-algebra query, print results.
func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit(errors.New("usage: curator <query>"), 1)
	}
	query := c.Args().First()

	svc, err := buildService(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	ctx := context.Background()
	if err := ensureFresh(ctx, svc); err != nil {
		return err
	}

	opts, err := searchOptionsFromFlags(c)
	if err != nil {
		return err
	}

	results, err := svc.Search(query, opts)
	if err != nil {
		return wrapExit(err)
	}
	return printResults(c, results)
}
