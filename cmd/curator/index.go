package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

// indexCommand implements spec.md §6's "<cmd> index": Clear drops
// in-memory state (and the change-detector cache) so the subsequent
// EnsureFresh performs a genuine full rebuild, not an incremental one.
func indexCommand(c *cli.Context) error {
	svc, err := buildService(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	svc.Clear()
	if err := ensureFresh(context.Background(), svc); err != nil {
		return err
	}

	stats := svc.Stats()
	if c.Bool("json") {
		fmt.Printf("{\"total_entries\":%d,\"total_files\":%d}\n", stats.TotalEntries, stats.TotalFiles)
		return nil
	}
	fmt.Printf("indexed %d entries across %d files\n", stats.TotalEntries, stats.TotalFiles)
	return nil
}
