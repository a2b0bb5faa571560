package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/specialistvlad/devenv/internal/cli"
	"github.com/specialistvlad/devenv/internal/hcl"
)

// main is the entrypoint for the devenv application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	streams := cli.IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	err := run(ctx, os.Args[1:], streams, cli.Deps{Loader: hcl.NewLoader()})
	stop()

	// The real main function handles errors and exit codes.
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitRuntime)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, args []string, streams cli.IO, deps cli.Deps) (err error) {
	// Registering two environments under one name panics; report it like any
	// other failure instead of crashing.
	defer func() {
		if r := recover(); r != nil {
			err = &cli.ExitError{Code: cli.ExitRuntime, Message: fmt.Sprintf("application startup panicked: %v", r)}
		}
	}()

	return cli.Run(ctx, args, streams, deps)
}
