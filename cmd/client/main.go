package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"

	"github.com/iudanet/usersauth/internal/client/cli"
	"github.com/iudanet/usersauth/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	app := cli.NewApplication(iocli.NewStdio(), cli.Connect, fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit))
	err := app.Run(ctx, os.Args[1:])
	stop()

	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(flagsErr.Message)
			os.Exit(0)
		}
		if !errors.Is(err, cli.ErrNoCommand) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
