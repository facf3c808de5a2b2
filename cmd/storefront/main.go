package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/storefront/internal/importer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		reportError(err)
		stop()
		os.Exit(1)
	}
}

// reportError prints the user message for err, followed by the technical
// error when the two differ.
func reportError(err error) {
	if importer.IsUserFacing(err) {
		fmt.Fprintln(os.Stderr, "error:", importer.FormatUserError(err))
		fmt.Fprintln(os.Stderr, "  ", err)
		return
	}
	fmt.Fprintln(os.Stderr, "error:", err)
}
