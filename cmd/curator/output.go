package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/semindex"
)

// searchOptionsFromFlags builds semindex.Options from the flag set every
// subcommand that searches shares, per spec.md §6's --type/--file/--max/
// --exact/--regex/--sort contract.
func searchOptionsFromFlags(c *cli.Context) (semindex.Options, error) {
	opts := semindex.Options{
		Exact: c.Bool("exact"),
		Regex: c.Bool("regex"),
		Max:   c.Int("max"),
		Sort:  semindex.SortMode(c.String("sort")),
	}
	if opts.Sort == "" {
		opts.Sort = semindex.SortRelevance
	}
	switch opts.Sort {
	case semindex.SortRelevance, semindex.SortUsage, semindex.SortName, semindex.SortFile:
	default:
		return opts, cli.Exit(fmt.Sprintf("unknown --sort value %q", opts.Sort), 1)
	}

	if raw := c.String("type"); raw != "" {
		for _, k := range strings.Split(raw, ",") {
			opts.Kinds = append(opts.Kinds, curatortypes.Kind(strings.TrimSpace(k)))
		}
	}
	if raw := c.String("file"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			opts.Files = append(opts.Files, strings.TrimSpace(f))
		}
	}
	return opts, nil
}

// printResults renders results per --json/--compact/human, in that order
// of precedence.
func printResults(c *cli.Context, results []semindex.Result) error {
	if c.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(results)
	}
	if c.Bool("compact") {
		for _, r := range results {
			fmt.Printf("%s:%d\t%s\t%s\t%.2f\n", r.Definition.Location.File, r.Definition.Location.Line, r.Definition.Kind, r.Definition.Term, r.Score)
		}
		return nil
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	noContext := c.Bool("no-context")
	for _, r := range results {
		fmt.Printf("%s:%d  [%s] %s  (score %.2f, %d uses)\n",
			r.Definition.Location.File, r.Definition.Location.Line,
			r.Definition.Kind, r.Definition.Term, r.Score, r.UsageCount)
		if !noContext && r.Definition.Context != "" {
			fmt.Printf("    %s\n", strings.TrimSpace(r.Definition.Context))
		}
	}
	return nil
}

func printImpact(c *cli.Context, term string, impact semindex.Impact) error {
	if c.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(impact)
	}
	fmt.Printf("%s: %d reference(s) across %d file(s)\n", term, len(impact.References), impact.FileCount)
	for kind, count := range impact.ByKind {
		fmt.Printf("  %s: %d\n", kind, count)
	}
	if c.Bool("compact") {
		return nil
	}
	for _, ref := range impact.References {
		fmt.Printf("  %s:%d  %s\n", ref.From.File, ref.From.Line, ref.RefKind)
	}
	return nil
}
