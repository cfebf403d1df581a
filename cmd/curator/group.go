package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/codecurator/semindex/internal/groups"
)

// groupSearchCommand implements spec.md §4.H's "<cmd> group <name>":
// expand the named group into its terms and search, identically to a
// bare query but pre-unioned.
func groupSearchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: curator group <name> | group list | group add | group remove", 1)
	}

	svc, err := buildService(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	if err := ensureFresh(context.Background(), svc); err != nil {
		return err
	}

	opts, err := searchOptionsFromFlags(c)
	if err != nil {
		return err
	}

	results, err := svc.SearchGroup(c.Args().First(), opts)
	if err != nil {
		return wrapExit(err)
	}
	return printResults(c, results)
}

func groupListCommand(c *cli.Context) error {
	svc, err := buildService(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	list := svc.Groups.List()
	if c.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(list)
	}
	for _, g := range list {
		fmt.Printf("%s %s  %s\n", g.Emoji, g.Name, g.Description)
	}
	return nil
}

func groupAddCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: curator group add <name> <term> [term...]", 1)
	}
	svc, err := buildService(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	name := c.Args().First()
	terms := c.Args().Tail()
	svc.Groups.Add(groups.Group{Name: name, Terms: terms})
	fmt.Printf("added group %q with %d term(s)\n", name, len(terms))
	return nil
}

func groupRemoveCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: curator group remove <name>", 1)
	}
	svc, err := buildService(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	name := c.Args().First()
	if !svc.Groups.Exists(name) {
		return cli.Exit(fmt.Sprintf("unknown group %q", name), 1)
	}
	svc.Groups.Remove(name)
	fmt.Printf("removed group %q\n", name)
	return nil
}
