// Package main provides the entry point for teafoundation.
//
// Usage:
//
//	teafoundation [command] [flags]
//
// Without a command the interactive demo starts.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/riordanpawley/teafoundation/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		if errors.Is(err, cli.ErrNotConfirmed) || errors.Is(err, cli.ErrCancelled) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
