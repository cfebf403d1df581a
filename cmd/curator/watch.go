package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/codecurator/semindex/internal/watch"
)

// watchCommand keeps the index fresh in the background until the
// process receives SIGINT/SIGTERM, per SPEC_FULL.md's watch component.
func watchCommand(c *cli.Context) error {
	svc, err := buildService(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	if err := ensureFresh(context.Background(), svc); err != nil {
		return err
	}

	w, err := watch.New(svc.Root, 300*time.Millisecond, svc.EnsureFresh)
	if err != nil {
		return cli.Exit(err, 2)
	}
	w.Start()
	defer w.Stop()

	fmt.Printf("watching %s, press Ctrl+C to stop\n", svc.Root)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}
