package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

// refsCommand implements spec.md §6's "<cmd> refs <term>": impact
// analysis, not a plain reference listing, since a reviewer almost
// always wants "what breaks if I change this" rather than a bare list.
func refsCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: curator refs <term>", 1)
	}
	term := c.Args().First()

	svc, err := buildService(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	if err := ensureFresh(context.Background(), svc); err != nil {
		return err
	}

	impact := svc.Impact(term)
	return printImpact(c, term, impact)
}
