package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/codecurator/semindex/internal/curatorconfig"
	"github.com/codecurator/semindex/internal/curatorerrors"
	"github.com/codecurator/semindex/internal/extract"
	"github.com/codecurator/semindex/internal/groups"
	"github.com/codecurator/semindex/internal/service"
)

var version = "dev"

// buildService wires spec.md §6's core library surface for the project
// rooted at the --root flag (default: cwd), loading .curatorconfig.json
// and the language extractor registry the same way every subcommand
// needs them.
func buildService(c *cli.Context) (*service.Service, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %q: %w", root, err)
	}

	cfg := curatorconfig.Load(absRoot)
	groupReg := groups.NewRegistry(cfg.Groups())
	perf := service.Performance{ParallelFileWorkers: c.Int("workers")}

	return service.New(absRoot, extract.Default(), groupReg, cfg, perf), nil
}

// exitCode maps an error from a Service call to spec.md §6's exit code
// contract: 0 success, 1 user error (bad query, unknown group, bad
// flags), 2 everything else (I/O, persistence, discovery failures).
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var qerr *curatorerrors.QueryError
	if errors.As(err, &qerr) {
		return 1
	}
	return 2
}

func wrapExit(err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(err.Error(), exitCode(err))
}

func main() {
	app := &cli.App{
		Name:                   "curator",
		Usage:                  "Semantic code index and search engine",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to index",
				Value:   ".",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Parallel file-extraction worker count",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Comma-separated list of kinds to match (function,class,variable,constant,string,comment,import,file)",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Comma-separated list of file globs to restrict results to",
			},
			&cli.IntFlag{
				Name:  "max",
				Usage: "Maximum number of results to return",
			},
			&cli.BoolFlag{
				Name:  "exact",
				Usage: "Match Tier 1 (case-folded exact) only",
			},
			&cli.BoolFlag{
				Name:  "regex",
				Usage: "Interpret the query as a regular expression",
			},
			&cli.BoolFlag{
				Name:  "no-context",
				Usage: "Omit surrounding-line context from human-readable output",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort order: relevance, usage, name, file",
				Value: "relevance",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "Output one compact line per result",
			},
		},
		Action: searchCommand,
		Commands: []*cli.Command{
			{
				Name:   "group",
				Usage:  "Work with concept groups (spec.md §4.H)",
				Action: groupSearchCommand,
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List all concept groups",
						Action: groupListCommand,
					},
					{
						Name:      "add",
						Usage:     "Add or replace a concept group",
						ArgsUsage: "<name> <term> [term...]",
						Action:    groupAddCommand,
					},
					{
						Name:      "remove",
						Usage:     "Remove a concept group",
						ArgsUsage: "<name>",
						Action:    groupRemoveCommand,
					},
				},
			},
			{
				Name:      "refs",
				Usage:     "Show impact analysis (cross-references) for a term",
				ArgsUsage: "<term>",
				Action:    refsCommand,
			},
			{
				Name:   "index",
				Usage:  "Force a full index rebuild",
				Action: indexCommand,
			},
			{
				Name:   "changes",
				Usage:  "Show impact of the working tree's uncommitted changes",
				Action: changesCommand,
			},
			{
				Name:   "watch",
				Usage:  "Watch the project and keep the index fresh",
				Action: watchCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "curator: %v\n", err)
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

func ensureFresh(ctx context.Context, svc *service.Service) error {
	if err := svc.EnsureFresh(ctx); err != nil {
		return wrapExit(err)
	}
	return nil
}
