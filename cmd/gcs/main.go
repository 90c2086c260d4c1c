// Package main implements the go-cfg-structure CLI (gcs).
// It turns goto-style function graphs into structured loops and conditionals.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/l3aro/go-cfg-structure/cmd/gcs/commands"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.RootCmd.Flags().BoolP("version", "v", false, "Print version information")
	commands.RootCmd.SetVersionTemplate(`gcs version {{.Version}}
`)
	commands.RootCmd.Version = version

	if err := commands.RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
