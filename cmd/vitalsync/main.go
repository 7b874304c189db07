// ABOUTME: Entry point for the vitalsync CLI.
// ABOUTME: Invokes the root Cobra command under a signal-aware context.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arborhealth/vitalsync/internal/sync"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := Execute(ctx)
	switch {
	case err == nil:
		return
	case errors.Is(err, sync.ErrInterrupted) || ctx.Err() != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(130)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
