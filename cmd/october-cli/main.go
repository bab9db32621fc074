package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ngmaloney/october-cli/internal/cli"
)

// Set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], cli.WithBuildInfo(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}))
	stop()
	os.Exit(code)
}
