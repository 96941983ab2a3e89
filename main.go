// Package main provides the entrypoint for obelix.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/isometry/obelix/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.New().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
