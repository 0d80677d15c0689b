package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lifeisriding/slimductor/cli"
	"github.com/lifeisriding/slimductor/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The result is logged by Execute. Hooks must never see a failure, so
	// the exit status stays zero.
	_ = cli.Execute(ctx, cmd.NewRootCmd())
}
