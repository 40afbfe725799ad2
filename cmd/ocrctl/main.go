package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackzampolin/ocrctl/internal/process"
)

func main() {
	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, process.NewExecRunner())
	cancel()
	os.Exit(code)
}
